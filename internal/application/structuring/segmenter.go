package structuring

import (
	"regexp"
	"strings"
)

// sectionHeader matches numbered bold headers such as "1. **Title:**".
var sectionHeader = regexp.MustCompile(`\d+\.\s*\*\*`)

// Segmenter splits raw model text into candidate option segments.
type Segmenter interface {
	Split(raw string) []string
}

// HeaderSegmenter splits on numbered bold section headers.
type HeaderSegmenter struct{}

// Split returns the trimmed, non-empty text following each header, in order.
// The header's opening bold marker is consumed. Text before the first header
// is not a segment, and text with no headers yields no segments.
func (HeaderSegmenter) Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	bounds := sectionHeader.FindAllStringIndex(raw, -1)
	if len(bounds) == 0 {
		return nil
	}

	segments := make([]string, 0, len(bounds))
	for i, bound := range bounds {
		end := len(raw)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		if segment := strings.TrimSpace(raw[bound[1]:end]); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
