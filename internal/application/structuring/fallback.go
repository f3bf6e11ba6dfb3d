package structuring

import (
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/tunemate-go/internal/domain"
)

const (
	fallbackTitle = "Response"
	// emptyResponseContent stands in for a model answer that was blank.
	emptyResponseContent = "No result generated."
)

// Evaluation defaults used when the model's JSON cannot be read.
const (
	DefaultEvaluationScore    = 7
	defaultEvaluationFeedback = "Good effort! Keep practicing to improve your fluency."
)

var (
	defaultEvaluationMistakes  = []string{"Consider reviewing grammar rules for better accuracy."}
	defaultEvaluationStrengths = []string{"You expressed your thoughts clearly.", "Good attempt at answering the question."}
)

// WholeResponse is tier 2: the model answered but not in numbered sections,
// so the whole answer becomes a single option.
func WholeResponse(raw string, action domain.Action, now time.Time) domain.StructuredResponse {
	resp := singleFallback(raw, action, now)
	resp.Success = true
	setTier(&resp, domain.TierWholeResponse)
	return resp
}

// PipelineFailure is tier 3: structuring itself broke. The raw text is still
// returned, but the response reports Success=false.
func PipelineFailure(raw string, action domain.Action, now time.Time) domain.StructuredResponse {
	resp := singleFallback(raw, action, now)
	resp.Success = false
	setTier(&resp, domain.TierPipelineFailure)
	return resp
}

func singleFallback(raw string, action domain.Action, now time.Time) domain.StructuredResponse {
	content := strings.TrimSpace(raw)
	if content == "" {
		content = emptyResponseContent
	}
	options := []domain.OptionRecord{{
		ID:      domain.FallbackOptionID,
		Title:   fallbackTitle,
		Content: content,
		Type:    domain.OptionFallback,
	}}
	return domain.StructuredResponse{
		Action:        action,
		Timestamp:     now,
		RawResponse:   raw,
		Options:       options,
		Metadata:      metadataFor(options, true),
		Encouragement: Encouragement(action),
	}
}

// NormalizeOptions forces a parsed option list to the profile's expected
// length. Blank entries are dropped first, short lists are padded with the
// positional filler templates and long lists keep their leading entries.
// padded reports whether any filler was used.
func NormalizeOptions(profile Profile, entries []string, text string) (options []string, padded bool) {
	want := profile.ExpectedOptions
	options = make([]string, 0, want)
	for _, entry := range entries {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	for len(options) < want {
		options = append(options, fillTemplate(profile.Fillers, len(options), text))
		padded = true
	}
	if len(options) > want {
		options = options[:want]
	}
	return options, padded
}

// DefaultOptions is tier 4 for option-list actions.
func DefaultOptions(profile Profile, text string) []string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	options := make([]string, 0, profile.ExpectedOptions)
	for i := 0; i < profile.ExpectedOptions; i++ {
		options = append(options, fillTemplate(profile.Defaults, i, lowered))
	}
	return options
}

func fillTemplate(templates []string, position int, text string) string {
	if len(templates) == 0 {
		return strings.TrimSpace(text)
	}
	if position >= len(templates) {
		position = len(templates) - 1
	}
	return fmt.Sprintf(templates[position], strings.TrimSpace(text))
}

// DefaultEvaluation is tier 4 for evaluate: a neutral score with the answer
// echoed back as the improved version.
func DefaultEvaluation(answer string) domain.Evaluation {
	return domain.Evaluation{
		Score:     DefaultEvaluationScore,
		Feedback:  defaultEvaluationFeedback,
		Mistakes:  append([]string(nil), defaultEvaluationMistakes...),
		Improved:  strings.TrimSpace(answer),
		Strengths: append([]string(nil), defaultEvaluationStrengths...),
	}
}
