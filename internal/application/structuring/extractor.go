package structuring

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/doeshing/tunemate-go/internal/domain"
)

var (
	titlePattern      = regexp.MustCompile(`^([^*]+?)\*\*`)
	labelPattern      = regexp.MustCompile(`\*\*([^:*\n]+?):\*\*`)
	leadingRunPattern = regexp.MustCompile(`^\*\*[^*]+?\*\*`)
	trailingColon     = regexp.MustCompile(`:\s*$`)
)

// annotationLabels never carry option content.
var annotationLabels = map[string]struct{}{
	"note":        {},
	"changes":     {},
	"explanation": {},
	"summary":     {},
}

// Strategy is one way of locating a field in a segment. Find reports false
// when the field is absent or empty.
type Strategy struct {
	Name string
	Find func(segment string) (string, bool)
}

// Extractor pulls option fields out of segments. Content strategies are tried
// in order and the first non-empty result wins.
type Extractor struct {
	Title       Strategy
	Content     []Strategy
	Note        Strategy
	Explanation Strategy
}

// NewExtractor returns an extractor with the built-in strategies.
func NewExtractor() *Extractor {
	return &Extractor{
		Title: Strategy{Name: "leading-title", Find: findTitle},
		Content: []Strategy{
			{Name: "reply-label", Find: restored(labeled("reply"))},
			{Name: "any-label", Find: restored(firstContentLabel)},
			{Name: "after-title", Find: restored(afterLeadingRun)},
		},
		Note:        Strategy{Name: "note-label", Find: restored(labeled("note"))},
		Explanation: Strategy{Name: "explanation-label", Find: restored(labeled("changes", "explanation", "summary"))},
	}
}

// Extract builds the option record for the segment at index. A segment whose
// content cannot be located is kept verbatim and typed as unparsed. Extract
// never fails.
func (e *Extractor) Extract(segment string, index int) (record domain.OptionRecord) {
	defer func() {
		if r := recover(); r != nil {
			record = unparsedOption(segment, index)
		}
	}()

	record = domain.OptionRecord{
		ID:   optionID(index),
		Type: domain.OptionStandard,
	}
	if title, ok := e.Title.Find(segment); ok {
		record.Title = title
	} else {
		record.Title = optionTitle(index)
	}

	content, found := "", false
	for _, strategy := range e.Content {
		if content, found = strategy.Find(segment); found {
			break
		}
	}
	if !found {
		record.Content = strings.TrimSpace(segment)
		record.Type = domain.OptionUnparsed
	} else {
		record.Content = content
	}

	if note, ok := e.Note.Find(segment); ok {
		record.Note = note
	}
	if explanation, ok := e.Explanation.Find(segment); ok {
		record.Explanation = explanation
	}
	return record
}

func findTitle(segment string) (string, bool) {
	match := titlePattern.FindStringSubmatch(segment)
	if match == nil {
		return "", false
	}
	title := strings.TrimSpace(trailingColon.ReplaceAllString(match[1], ""))
	return title, title != ""
}

// field is one bold "**Label:**" marker and the text after it, up to the
// next bold marker or the end of the segment.
type field struct {
	label string
	value string
}

func fields(text string) []field {
	matches := labelPattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]field, 0, len(matches))
	for _, m := range matches {
		out = append(out, field{
			label: strings.ToLower(strings.TrimSpace(text[m[2]:m[3]])),
			value: valueAfter(text, m[1]),
		})
	}
	return out
}

func valueAfter(text string, from int) string {
	rest := text[from:]
	if end := strings.Index(rest, "**"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// labeled finds the first non-empty field whose label is one of names.
func labeled(names ...string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		for _, f := range fields(text) {
			if f.value == "" || !slices.Contains(names, f.label) {
				continue
			}
			return f.value, true
		}
		return "", false
	}
}

// firstContentLabel finds the first non-empty field that is not an annotation.
func firstContentLabel(text string) (string, bool) {
	for _, f := range fields(text) {
		if _, skip := annotationLabels[f.label]; skip || f.value == "" {
			continue
		}
		return f.value, true
	}
	return "", false
}

// afterLeadingRun takes the text after the opening bold run, for sections
// titled without a colon such as "**Casual**".
func afterLeadingRun(text string) (string, bool) {
	loc := leadingRunPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	value := valueAfter(text, loc[1])
	return value, value != ""
}

// restored re-attaches the bold marker the segmenter consumed so label
// patterns see the segment's first field intact.
func restored(find func(string) (string, bool)) func(string) (string, bool) {
	return func(segment string) (string, bool) {
		return find("**" + segment)
	}
}

func unparsedOption(segment string, index int) domain.OptionRecord {
	return domain.OptionRecord{
		ID:      optionID(index),
		Title:   optionTitle(index),
		Content: strings.TrimSpace(segment),
		Type:    domain.OptionUnparsed,
	}
}

func optionID(index int) string {
	return fmt.Sprintf("option_%d", index+1)
}

func optionTitle(index int) string {
	return fmt.Sprintf("Option %d", index+1)
}
