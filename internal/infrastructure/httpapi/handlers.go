package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/tunemate-go/internal/domain"
)

const genericErrorMessage = "Something went wrong"

type processBody struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Action    string `json:"action"`
}

type processResponse struct {
	Success        bool                    `json:"success"`
	Action         domain.Action           `json:"action"`
	Timestamp      string                  `json:"timestamp"`
	Options        []domain.OptionRecord   `json:"options"`
	Metadata       domain.ResponseMetadata `json:"metadata"`
	Encouragement  string                  `json:"encouragement"`
	Outcome        domain.Outcome          `json:"outcome"`
	Tier           domain.Tier             `json:"tier"`
	Evaluation     *domain.Evaluation      `json:"evaluation,omitempty"`
	Result         string                  `json:"result"`
	ProcessingInfo domain.ProcessingInfo   `json:"processingInfo"`
}

type errorResponse struct {
	Success                bool     `json:"success"`
	Error                  string   `json:"error"`
	Details                string   `json:"details,omitempty"`
	AvailableActions       []string `json:"availableActions,omitempty"`
	AvailableQuestionTypes []string `json:"availableQuestionTypes,omitempty"`
}

type questionBody struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"questionType"`
}

type questionResponse struct {
	Success bool `json:"success"`
	domain.Question
	Difficulty domain.Difficulty `json:"difficulty"`
	Outcome    domain.Outcome    `json:"outcome"`
	Model      string            `json:"model"`
}

type healthResponse struct {
	Status           string   `json:"status"`
	Service          string   `json:"service"`
	Version          string   `json:"version"`
	AvailableActions []string `json:"availableActions"`
	History          string   `json:"history"`
	Timestamp        string   `json:"timestamp"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var body processBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, domain.MaxRequestBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := s.Process.Process(domain.ProcessRequest{
		Context:    r.Context(),
		Text:       body.Text,
		Reference:  body.Reference,
		Action:     body.Action,
		Provenance: provenance(r),
	})
	if err != nil {
		s.writeProcessError(w, err)
		return
	}

	resp := result.Response
	writeJSON(w, http.StatusOK, processResponse{
		Success:        resp.Success,
		Action:         resp.Action,
		Timestamp:      resp.Timestamp.Format(time.RFC3339Nano),
		Options:        resp.Options,
		Metadata:       resp.Metadata,
		Encouragement:  resp.Encouragement,
		Outcome:        resp.Outcome,
		Tier:           resp.Tier,
		Evaluation:     resp.Evaluation,
		Result:         resp.PrimaryContent(),
		ProcessingInfo: result.ProcessingInfo,
	})
}

func (s *Server) writeProcessError(w http.ResponseWriter, err error) {
	if domain.IsValidation(err) {
		body := errorResponse{Error: err.Error()}
		if errors.Is(err, domain.ErrUnknownAction) {
			body.AvailableActions = domain.KnownActionNames()
		}
		if errors.Is(err, domain.ErrUnknownQuestionType) {
			for _, qtype := range domain.KnownQuestionTypes() {
				body.AvailableQuestionTypes = append(body.AvailableQuestionTypes, string(qtype))
			}
			body.AvailableQuestionTypes = append(body.AvailableQuestionTypes, string(domain.QuestionRandom))
		}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	s.Logger.Error("process request failed", err, nil)
	body := errorResponse{Error: genericErrorMessage}
	if s.DevMode {
		body.Details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	if s.Question == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "question generation is disabled"})
		return
	}
	var body questionBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, domain.MaxRequestBodyBytes))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := s.Question.Question(domain.QuestionRequest{
		Context:    r.Context(),
		Topic:      body.Topic,
		Type:       body.QuestionType,
		Difficulty: body.Difficulty,
	})
	if err != nil {
		s.writeProcessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{
		Success:    true,
		Question:   result.Question,
		Difficulty: result.Difficulty,
		Outcome:    result.Outcome,
		Model:      result.Model,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "disabled"
	if s.History != nil {
		status = "ok"
		if err := s.History.Ping(r.Context()); err != nil {
			status = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Service:          domain.ServiceName,
		Version:          domain.ServiceVersion,
		AvailableActions: domain.KnownActionNames(),
		History:          status,
		Timestamp:        s.now().Format(domain.TimestampFormat),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyReady(w) {
		return
	}
	limit, ok := parseLimit(w, r, domain.DefaultHistoryLimit)
	if !ok {
		return
	}

	query := r.URL.Query()
	var action domain.Action
	if raw := query.Get("action"); raw != "" {
		parsed, known := domain.ParseAction(raw)
		if !known {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action", AvailableActions: domain.KnownActionNames()})
			return
		}
		action = parsed
	}

	var (
		entries []domain.HistoryEntry
		err     error
	)
	from, to := query.Get("from"), query.Get("to")
	switch {
	case from != "" || to != "":
		start, end, rangeErr := domain.ResolveDateRange(from, to, s.now())
		if rangeErr != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date range", Details: rangeErr.Error()})
			return
		}
		entries, err = s.rangeEntries(r, start, end, action, limit)
	case action != "":
		entries, err = s.History.ByAction(r.Context(), action, limit)
	default:
		entries, err = s.History.Recent(r.Context(), limit)
	}
	s.writeEntries(w, entries, err)
}

// rangeEntries narrows a date range to one action when asked; the store
// cannot combine both filters so the limit is applied afterwards.
func (s *Server) rangeEntries(r *http.Request, start, end time.Time, action domain.Action, limit int) ([]domain.HistoryEntry, error) {
	if action == "" {
		return s.History.ByDateRange(r.Context(), start, end, limit)
	}
	all, err := s.History.ByDateRange(r.Context(), start, end, 0)
	if err != nil {
		return nil, err
	}
	var out []domain.HistoryEntry
	for _, entry := range all {
		if entry.Action != action {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.historyReady(w) {
		return
	}
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return
	}
	limit, ok := parseLimit(w, r, domain.DefaultHistorySearchLimit)
	if !ok {
		return
	}
	entries, err := s.History.Search(r.Context(), term, limit)
	s.writeEntries(w, entries, err)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.historyReady(w) {
		return
	}
	stats, err := s.History.Stats(r.Context())
	if err != nil {
		s.Logger.Error("history stats failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: genericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

func (s *Server) historyReady(w http.ResponseWriter) bool {
	if s.History == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "history is disabled"})
		return false
	}
	return true
}

func (s *Server) writeEntries(w http.ResponseWriter, entries []domain.HistoryEntry, err error) {
	if err != nil {
		s.Logger.Error("history query failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: genericErrorMessage})
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": len(entries), "entries": entries})
}

func parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

// provenance reads the caller identity. The first X-Forwarded-For hop wins
// over the socket address; a missing session id gets a fresh one.
func provenance(r *http.Request) domain.Provenance {
	ip := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}
	session := strings.TrimSpace(r.Header.Get("X-Session-Id"))
	if session == "" {
		session = uuid.NewString()
	}
	return domain.Provenance{
		IP:        ip,
		UserAgent: r.UserAgent(),
		SessionID: session,
	}
}
