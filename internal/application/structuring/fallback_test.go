package structuring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/tunemate-go/internal/domain"
)

func TestNormalizeOptionsAlwaysYieldsExpectedCount(t *testing.T) {
	profile := ProfileFor(domain.ActionPolite)
	text := "send me the file"

	tests := []struct {
		name       string
		entries    []string
		want       []string
		wantPadded bool
	}{
		{
			name:       "zero entries",
			entries:    nil,
			want:       []string{"Please send me the file", "I would appreciate if you could send me the file", "Would you kindly send me the file? Thank you."},
			wantPadded: true,
		},
		{
			name:       "one entry",
			entries:    []string{"Option one"},
			want:       []string{"Option one", "I would appreciate if you could send me the file", "Would you kindly send me the file? Thank you."},
			wantPadded: true,
		},
		{
			name:       "two entries",
			entries:    []string{"a", "b"},
			want:       []string{"a", "b", "Would you kindly send me the file? Thank you."},
			wantPadded: true,
		},
		{
			name:    "three entries",
			entries: []string{"a", "b", "c"},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "five entries truncated",
			entries: []string{"a", "b", "c", "d", "e"},
			want:    []string{"a", "b", "c"},
		},
		{
			name:       "blank entries dropped before padding",
			entries:    []string{" ", "a", "", "\n"},
			want:       []string{"a", "I would appreciate if you could send me the file", "Would you kindly send me the file? Thank you."},
			wantPadded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, padded := NormalizeOptions(profile, tt.entries, text)
			assert.Len(t, got, 3)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPadded, padded)
		})
	}
}

func TestDefaultOptionsLowercasesInput(t *testing.T) {
	got := DefaultOptions(ProfileFor(domain.ActionPolite), "  Give Me The Report ")
	assert.Equal(t, []string{
		"Please give me the report",
		"I would appreciate if you could give me the report",
		"Would you be so kind as to give me the report? Thank you very much.",
	}, got)
}

func TestWholeResponseAndPipelineFailure(t *testing.T) {
	now := fixedNow()

	whole := WholeResponse("  Sorry, I can't help with that. ", domain.ActionReply, now)
	assert.True(t, whole.Success)
	assert.Equal(t, domain.TierWholeResponse, whole.Tier)
	assert.Equal(t, domain.OutcomeDegraded, whole.Outcome)
	assert.True(t, whole.Metadata.ProcessingError)
	assert.Equal(t, []domain.OptionRecord{{
		ID: domain.FallbackOptionID, Title: "Response", Content: "Sorry, I can't help with that.", Type: domain.OptionFallback,
	}}, whole.Options)

	failed := PipelineFailure("", domain.ActionGrammar, now)
	assert.False(t, failed.Success)
	assert.Equal(t, domain.OutcomeFailed, failed.Outcome)
	assert.Equal(t, 1, failed.Metadata.TotalOptions)
	assert.NotEmpty(t, failed.Options[0].Content)
}

func TestEncouragement(t *testing.T) {
	tests := []struct {
		action domain.Action
		want   string
	}{
		{domain.ActionReply, "Great! Pick the tone that feels right for your situation."},
		{domain.ActionGrammar, "You're improving! These corrections will help you communicate more clearly."},
		{domain.ActionSimplify, "Perfect! Simpler language often works better."},
		{domain.ActionPolite, "Nice work! Polite communication opens doors."},
		{domain.ActionTranslate, "You're doing great! Keep practicing."},
		{domain.Action("unknown"), "You're doing great! Keep practicing."},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, Encouragement(tt.action))
		})
	}
}
