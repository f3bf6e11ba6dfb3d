package structuring

import (
	"strings"
	"time"

	"github.com/doeshing/tunemate-go/internal/domain"
)

// Assemble wraps extracted options into a response. The response is
// successful by construction; the tier reflects whether any option degraded.
func Assemble(raw string, action domain.Action, options []domain.OptionRecord, now time.Time) domain.StructuredResponse {
	tier := domain.TierNone
	for _, option := range options {
		if option.Type != domain.OptionStandard {
			tier = domain.TierSegment
			break
		}
	}

	resp := domain.StructuredResponse{
		Action:        action,
		Timestamp:     now,
		RawResponse:   raw,
		Options:       options,
		Encouragement: Encouragement(action),
		Success:       true,
	}
	setTier(&resp, tier)
	resp.Metadata = metadataFor(options, false)
	return resp
}

func metadataFor(options []domain.OptionRecord, processingError bool) domain.ResponseMetadata {
	meta := domain.ResponseMetadata{
		TotalOptions:    len(options),
		ProcessingError: processingError,
	}
	for _, option := range options {
		if strings.TrimSpace(option.Note) != "" {
			meta.HasNotes = true
		}
		if strings.TrimSpace(option.Explanation) != "" {
			meta.HasExplanations = true
		}
	}
	return meta
}

func setTier(resp *domain.StructuredResponse, tier domain.Tier) {
	resp.Tier = tier
	resp.Outcome = tier.Outcome()
}
