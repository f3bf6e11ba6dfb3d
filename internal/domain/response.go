package domain

import "time"

// OptionType marks where an option's content came from.
type OptionType string

const (
	OptionStandard OptionType = "standard"
	OptionFallback OptionType = "fallback"
	OptionUnparsed OptionType = "unparsed"
)

// FallbackOptionID is the id used for single-shot degraded output.
const FallbackOptionID = "fallback"

// Outcome is the kind of result the structuring pipeline produced.
type Outcome string

const (
	// OutcomeParsed means every stage produced what the prompt asked for.
	OutcomeParsed Outcome = "parsed"
	// OutcomeDegraded means a recovery tier supplied part or all of the result.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed means the pipeline itself errored and the last-resort tier was used.
	OutcomeFailed Outcome = "failed"
)

// Tier is the deepest fallback tier reached while structuring a response.
type Tier int

const (
	TierNone Tier = iota
	// TierSegment: a segment existed but its fields did not extract, or a
	// strict-JSON option list had to be padded.
	TierSegment
	// TierWholeResponse: the raw text had no numbered sections at all.
	TierWholeResponse
	// TierPipelineFailure: an unexpected error inside the pipeline.
	TierPipelineFailure
	// TierDefaulted: strict-JSON text could not be parsed; defaults substituted.
	TierDefaulted
)

// Outcome maps a tier onto the result kind callers switch on.
func (t Tier) Outcome() Outcome {
	switch t {
	case TierNone:
		return OutcomeParsed
	case TierPipelineFailure:
		return OutcomeFailed
	default:
		return OutcomeDegraded
	}
}

// OptionRecord is one user-facing suggestion.
type OptionRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Note        string     `json:"note"`
	Explanation string     `json:"explanation"`
	Type        OptionType `json:"type"`
}

// ResponseMetadata is derived from the options after assembly.
type ResponseMetadata struct {
	TotalOptions    int  `json:"totalOptions"`
	HasNotes        bool `json:"hasNotes"`
	HasExplanations bool `json:"hasExplanations"`
	ProcessingError bool `json:"processingError"`
}

// Evaluation is the detailed feedback returned for the evaluate action.
type Evaluation struct {
	Score     int      `json:"score"`
	Feedback  string   `json:"feedback"`
	Mistakes  []string `json:"mistakes"`
	Improved  string   `json:"improved"`
	Strengths []string `json:"strengths"`
}

// StructuredResponse is the normalized form of one model answer.
type StructuredResponse struct {
	Action        Action           `json:"action"`
	Timestamp     time.Time        `json:"timestamp"`
	RawResponse   string           `json:"rawResponse"`
	Options       []OptionRecord   `json:"options"`
	Metadata      ResponseMetadata `json:"metadata"`
	Encouragement string           `json:"encouragement"`
	Success       bool             `json:"success"`
	Outcome       Outcome          `json:"outcome"`
	Tier          Tier             `json:"tier"`
	Evaluation    *Evaluation      `json:"evaluation,omitempty"`
}

// PrimaryContent returns the first option's content, or "" when there is none.
func (r StructuredResponse) PrimaryContent() string {
	if len(r.Options) == 0 {
		return ""
	}
	return r.Options[0].Content
}
