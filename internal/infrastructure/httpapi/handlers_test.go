package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/application/process"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/history"
	"github.com/doeshing/tunemate-go/internal/pkg/logger"
)

var fixedTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type stubProcess struct {
	got    domain.ProcessRequest
	result domain.ProcessResult
	err    error
}

func (s *stubProcess) Process(req domain.ProcessRequest) (domain.ProcessResult, error) {
	s.got = req
	if s.err != nil {
		return domain.ProcessResult{}, s.err
	}
	if _, _, err := process.Validate(req); err != nil {
		return domain.ProcessResult{}, err
	}
	return s.result, nil
}

func sampleResult() domain.ProcessResult {
	return domain.ProcessResult{
		Response: domain.StructuredResponse{
			Action:    domain.ActionReply,
			Timestamp: fixedTime,
			Options: []domain.OptionRecord{
				{ID: "option_1", Title: "Casual", Content: "Sounds good!", Type: domain.OptionStandard},
				{ID: "option_2", Title: "Formal", Content: "That works for me.", Type: domain.OptionStandard},
			},
			Metadata:      domain.ResponseMetadata{TotalOptions: 2},
			Encouragement: "Great job!",
			Success:       true,
			Outcome:       domain.OutcomeParsed,
		},
		ProcessingInfo: domain.ProcessingInfo{OptionsFound: 2, ProcessingSuccess: true, DatabaseSaved: true, Model: "offline"},
	}
}

func newServer(proc domain.ProcessService, store *history.FileStore) *Server {
	s := &Server{Process: proc, Logger: logger.NewNop(), Now: func() time.Time { return fixedTime }}
	if store != nil {
		s.History = store
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestProcessSuccess(t *testing.T) {
	proc := &stubProcess{result: sampleResult()}
	h := newServer(proc, nil).Handler()

	rec, body := do(t, h, http.MethodPost, "/api/process",
		`{"text":"see you at 5","action":"reply"}`,
		map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2", "User-Agent": "ua/1", "X-Session-Id": "sess"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "reply", body["action"])
	assert.Equal(t, "Sounds good!", body["result"])
	assert.Equal(t, "parsed", body["outcome"])
	assert.EqualValues(t, 0, body["tier"])
	assert.NotContains(t, body, "evaluation")
	assert.Len(t, body["options"], 2)
	info := body["processingInfo"].(map[string]interface{})
	assert.Equal(t, true, info["databaseSaved"])

	want := domain.Provenance{IP: "10.0.0.1", UserAgent: "ua/1", SessionID: "sess"}
	if diff := cmp.Diff(want, proc.got.Provenance); diff != "" {
		t.Fatalf("provenance mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "see you at 5", proc.got.Text)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		err         error
		devMode     bool
		wantStatus  int
		wantError   string
		wantActions bool
		wantDetails bool
	}{
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest, wantError: "Invalid JSON body"},
		{name: "missing text", body: `{"action":"reply"}`, wantStatus: http.StatusBadRequest, wantError: "invalid text: text is required"},
		{name: "unknown action", body: `{"text":"hi","action":"shout"}`, wantStatus: http.StatusBadRequest, wantActions: true},
		{name: "model failure", body: `{"text":"hi","action":"reply"}`, err: fmt.Errorf("%w: boom", domain.ErrModelUnavailable), wantStatus: http.StatusInternalServerError, wantError: genericErrorMessage},
		{name: "model failure dev mode", body: `{"text":"hi","action":"reply"}`, err: errors.New("boom"), devMode: true, wantStatus: http.StatusInternalServerError, wantError: genericErrorMessage, wantDetails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&stubProcess{err: tt.err, result: sampleResult()}, nil)
			s.DevMode = tt.devMode

			rec, body := do(t, s.Handler(), http.MethodPost, "/api/process", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			_, hasActions := body["availableActions"]
			assert.Equal(t, tt.wantActions, hasActions)
			_, hasDetails := body["details"]
			assert.Equal(t, tt.wantDetails, hasDetails)
		})
	}
}

func TestHealth(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "h.jsonl"), 0)

	for name, s := range map[string]*Server{
		"with history":    newServer(&stubProcess{}, store),
		"without history": newServer(&stubProcess{}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec, body := do(t, s.Handler(), http.MethodGet, "/api/process", "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, domain.ServiceName, body["service"])
			assert.Len(t, body["availableActions"], len(domain.KnownActions()))
			if s.History == nil {
				assert.Equal(t, "disabled", body["history"])
			} else {
				assert.Equal(t, "ok", body["history"])
			}
		})
	}
}

func TestHistoryRoutes(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "h.jsonl"), 0)
	ctx := context.Background()
	for i, action := range []domain.Action{domain.ActionReply, domain.ActionGrammar, domain.ActionReply} {
		resp := domain.StructuredResponse{Action: action, Options: []domain.OptionRecord{{Content: fmt.Sprintf("answer %d", i)}}}
		_, err := store.Append(ctx, domain.HistoryEntry{
			InputText: fmt.Sprintf("input %d", i),
			Action:    action,
			Result:    resp,
			Timestamp: fixedTime.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	h := newServer(&stubProcess{}, store).Handler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{"recent", "/api/history", http.StatusOK, 3},
		{"recent limited", "/api/history?limit=1", http.StatusOK, 1},
		{"by action", "/api/history?action=reply", http.StatusOK, 2},
		{"unknown action", "/api/history?action=shout", http.StatusBadRequest, 0},
		{"bad limit", "/api/history?limit=zero", http.StatusBadRequest, 0},
		{"date range", "/api/history?from=2024-06-01T10:00:30Z&to=2024-06-01T10:02:00Z", http.StatusOK, 2},
		{"date range open start", "/api/history?to=2024-06-01T10:01:00Z", http.StatusOK, 2},
		{"date range open end stops at now", "/api/history?from=2024-06-01T09:00:00Z", http.StatusOK, 1},
		{"date range day", "/api/history?to=2024-06-01", http.StatusOK, 3},
		{"date range before data", "/api/history?to=2024-05-31", http.StatusOK, 0},
		{"date range with action", "/api/history?from=2024-06-01&to=2024-06-01&action=reply", http.StatusOK, 2},
		{"date range with action limited", "/api/history?from=2024-06-01&to=2024-06-01&action=reply&limit=1", http.StatusOK, 1},
		{"bad from", "/api/history?from=yesterday", http.StatusBadRequest, 0},
		{"inverted range", "/api/history?from=2024-06-02&to=2024-06-01", http.StatusBadRequest, 0},
		{"search", "/api/history/search?q=ANSWER%201", http.StatusOK, 1},
		{"search by action", "/api/history/search?q=grammar", http.StatusOK, 1},
		{"search missing q", "/api/history/search", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodGet, tt.target, "", nil)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.EqualValues(t, tt.wantCount, body["count"])
				assert.Len(t, body["entries"], tt.wantCount)
			}
		})
	}

	rec, body := do(t, h, http.MethodGet, "/api/history/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 3, stats["totalEntries"])
}

func TestHistoryDisabled(t *testing.T) {
	h := newServer(&stubProcess{}, nil).Handler()
	for _, target := range []string{"/api/history", "/api/history/search?q=x", "/api/history/stats"} {
		rec, _ := do(t, h, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestProvenanceFallbacks(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	got := provenance(req)
	assert.Equal(t, "192.0.2.7", got.IP)
	assert.NotEmpty(t, got.SessionID)
}

type stubQuestion struct {
	got domain.QuestionRequest
	err error
}

func (s *stubQuestion) Question(req domain.QuestionRequest) (domain.QuestionResult, error) {
	s.got = req
	if s.err != nil {
		return domain.QuestionResult{}, s.err
	}
	qtype, ok := domain.ParseQuestionType(req.Type)
	if !ok {
		return domain.QuestionResult{}, &domain.ValidationError{Field: "questionType", Err: domain.ErrUnknownQuestionType}
	}
	if qtype == domain.QuestionRandom {
		qtype = domain.QuestionConversation
	}
	return domain.QuestionResult{
		Question:   domain.Question{English: "What did you do today?", Topic: "Daily Life", ExpectedLength: "Short", Type: qtype},
		Difficulty: domain.DifficultyBeginner,
		Outcome:    domain.OutcomeParsed,
		Model:      "offline",
	}, nil
}

func TestQuestionRoute(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantType   string
		wantTypes  bool
	}{
		{name: "explicit type", body: `{"topic":"daily life","difficulty":"beginner","questionType":"tech"}`, wantStatus: http.StatusOK, wantType: "tech"},
		{name: "empty body is random", body: "", wantStatus: http.StatusOK, wantType: "conversation"},
		{name: "invalid json", body: `{"topic":`, wantStatus: http.StatusBadRequest},
		{name: "unknown type", body: `{"questionType":"poetry"}`, wantStatus: http.StatusBadRequest, wantTypes: true},
		{name: "model failure", body: `{}`, err: domain.ErrModelUnavailable, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &stubQuestion{err: tt.err}
			s := newServer(&stubProcess{}, nil)
			s.Question = q

			rec, body := do(t, s.Handler(), http.MethodPost, "/api/question", tt.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code)
			_, hasTypes := body["availableQuestionTypes"]
			assert.Equal(t, tt.wantTypes, hasTypes)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, body["success"])
				return
			}
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "What did you do today?", body["english"])
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "beginner", body["difficulty"])
			assert.Equal(t, "parsed", body["outcome"])
			assert.NotContains(t, body, "hint")
		})
	}
}

func TestQuestionRouteForwardsFields(t *testing.T) {
	q := &stubQuestion{}
	s := newServer(&stubProcess{}, nil)
	s.Question = q

	rec, _ := do(t, s.Handler(), http.MethodPost, "/api/question", `{"topic":"graphs","difficulty":"advanced","questionType":"dsa"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "graphs", q.got.Topic)
	assert.Equal(t, "advanced", q.got.Difficulty)
	assert.Equal(t, "dsa", q.got.Type)
	assert.NotNil(t, q.got.Context)
}

func TestQuestionRouteDisabled(t *testing.T) {
	rec, body := do(t, newServer(&stubProcess{}, nil).Handler(), http.MethodPost, "/api/question", `{}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "question generation is disabled", body["error"])
}
