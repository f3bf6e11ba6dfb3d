package process

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
)

func TestQuestionParsesModelAnswer(t *testing.T) {
	provider := &stubProvider{text: `{"english": "Explain a stack.", "topic": "Stacks", "expectedLength": "Short", "hint": "LIFO"}`}
	history := &stubHistory{}
	svc := newService(provider, history)

	result, err := svc.Question(domain.QuestionRequest{Type: "DSA", Difficulty: "advanced", Topic: "stacks"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeParsed, result.Outcome)
	assert.Equal(t, domain.DifficultyAdvanced, result.Difficulty)
	assert.Equal(t, "primary", result.Model)
	assert.Equal(t, domain.Question{
		English: "Explain a stack.", Topic: "Stacks", ExpectedLength: "Short", Type: domain.QuestionDSA, Hint: "LIFO",
	}, result.Question)

	assert.Equal(t, domain.QuestionDSA, provider.lastReq.Question)
	assert.True(t, provider.lastReq.JSON)
	assert.True(t, provider.deadline)
	assert.Contains(t, provider.lastReq.Prompt, "Topic: stacks")
	assert.Empty(t, history.entries, "questions are not recorded")
}

func TestQuestionFallsBackToCannedQuestion(t *testing.T) {
	provider := &stubProvider{text: "Sorry, I can't produce JSON today."}
	svc := newService(provider, nil)
	svc.Intn = func(int) int { return 1 }

	result, err := svc.Question(domain.QuestionRequest{Type: "aptitude"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDegraded, result.Outcome)
	assert.Equal(t, domain.DifficultyBeginner, result.Difficulty)
	assert.Equal(t, domain.QuestionAptitude, result.Question.Type)
	assert.Contains(t, result.Question.English, "1, 4, 9, 16, 25")
	assert.NotEmpty(t, result.Question.Solution)
}

func TestQuestionRandomTypeUsesPicker(t *testing.T) {
	provider := &stubProvider{text: `{"english": "Why use Git?"}`}
	svc := newService(provider, nil)
	svc.Intn = func(n int) int { return 2 }

	result, err := svc.Question(domain.QuestionRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionTech, result.Question.Type)
	assert.Equal(t, domain.QuestionTech, provider.lastReq.Question)
}

func TestQuestionRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		req   domain.QuestionRequest
		field string
		want  error
	}{
		{"type", domain.QuestionRequest{Type: "poetry"}, "questionType", domain.ErrUnknownQuestionType},
		{"difficulty", domain.QuestionRequest{Difficulty: "expert"}, "difficulty", domain.ErrUnknownDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{}
			_, err := newService(provider, nil).Question(tt.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, provider.calls)
		})
	}
}

func TestQuestionModelFailure(t *testing.T) {
	svc := newService(&stubProvider{err: errors.New("quota exceeded")}, nil)

	_, err := svc.Question(domain.QuestionRequest{Type: "tech"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
