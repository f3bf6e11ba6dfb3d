package domain

import (
	"fmt"
	"time"
)

// HistoryEntry is one recorded processing attempt. Entries are immutable once saved.
type HistoryEntry struct {
	ID            string             `json:"id"`
	InputText     string             `json:"inputText"`
	ReferenceText string             `json:"referenceText,omitempty"`
	Action        Action             `json:"action"`
	Result        StructuredResponse `json:"structuredResult"`
	Timestamp     time.Time          `json:"timestamp"`
	Provenance    Provenance         `json:"provenance"`
	Searchable    SearchableFields   `json:"searchableFields"`
}

// SearchableFields are denormalized for cheap filtering.
type SearchableFields struct {
	HasMultipleOptions bool   `json:"hasMultipleOptions"`
	OptionCount        int    `json:"optionCount"`
	ActionType         Action `json:"actionType"`
	ProcessingSuccess  bool   `json:"processingSuccess"`
}

// NewSearchableFields derives the denormalized fields from a response.
func NewSearchableFields(resp StructuredResponse) SearchableFields {
	return SearchableFields{
		HasMultipleOptions: len(resp.Options) > 1,
		OptionCount:        len(resp.Options),
		ActionType:         resp.Action,
		ProcessingSuccess:  resp.Success,
	}
}

// ActionStat summarizes usage of one action.
type ActionStat struct {
	Action   Action    `json:"action"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// HistoryStats aggregates the history store.
type HistoryStats struct {
	TotalEntries int          `json:"totalEntries"`
	ActionStats  []ActionStat `json:"actionStats"`
}

// CacheEntry stores a raw model response for reuse.
type CacheEntry struct {
	Key         string    `json:"key"`
	Action      Action    `json:"action"`
	Model       string    `json:"model"`
	RawResponse string    `json:"raw_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// DateOnlyFormat is accepted alongside RFC3339 for history range bounds.
const DateOnlyFormat = "2006-01-02"

// ResolveDateRange parses optional range bounds. An empty from means the
// Unix epoch and an empty to means now. A date-only to covers the whole day.
func ResolveDateRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	end := now
	if from != "" {
		parsed, _, err := parseTimeBound(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from %q: %w", from, err)
		}
		start = parsed
	}
	if to != "" {
		parsed, dateOnly, err := parseTimeBound(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to %q: %w", to, err)
		}
		end = parsed
		if dateOnly {
			end = parsed.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s is after to %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return start, end, nil
}

func parseTimeBound(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(DateOnlyFormat, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("want RFC3339 or %s", DateOnlyFormat)
	}
	return t, true, nil
}
