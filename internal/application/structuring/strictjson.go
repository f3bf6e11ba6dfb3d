package structuring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeFence   = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	leadingInts = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	errNoJSON = errors.New("no JSON value in response")
)

// stripCodeFences removes markdown fence lines, keeping what they wrapped.
func stripCodeFences(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}

// sliceJSON returns the text from the first '{' or '[' through the last
// matching closer.
func sliceJSON(text string) (string, error) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", errNoJSON
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return "", errNoJSON
	}
	return text[start : end+1], nil
}

// decodeStrict strips fences, slices out the JSON value and decodes it into v.
func decodeStrict(raw string, v any) error {
	slice, err := sliceJSON(stripCodeFences(raw))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(slice), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}

// decodeOptionList accepts either a bare array or {"options": [...]}.
// Non-string entries are kept as blanks so they are filtered like empty ones.
func decodeOptionList(raw string) ([]string, error) {
	var value any
	if err := decodeStrict(raw, &value); err != nil {
		return nil, err
	}
	var items []any
	switch typed := value.(type) {
	case []any:
		items = typed
	case map[string]any:
		list, ok := typed["options"].([]any)
		if !ok {
			return nil, errors.New("decode model JSON: object has no options array")
		}
		items = list
	default:
		return nil, fmt.Errorf("decode model JSON: unexpected %T", value)
	}

	entries := make([]string, 0, len(items))
	for _, item := range items {
		text, _ := item.(string)
		entries = append(entries, text)
	}
	return entries, nil
}

type translationPayload struct {
	Translated  string `json:"translated"`
	Translation string `json:"translation"`
}

func decodeTranslation(raw string) (string, error) {
	var payload translationPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return "", err
	}
	text := strings.TrimSpace(payload.Translated)
	if text == "" {
		text = strings.TrimSpace(payload.Translation)
	}
	if text == "" {
		return "", errors.New("decode model JSON: empty translation")
	}
	return text, nil
}

type evaluationPayload struct {
	Score     json.RawMessage `json:"score"`
	Feedback  string          `json:"feedback"`
	Mistakes  []string        `json:"mistakes"`
	Improved  string          `json:"improved"`
	Strengths []string        `json:"strengths"`
}

// parseScore reads a number or numeric string and clamps it to 0..10.
func parseScore(raw json.RawMessage) (int, bool) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	match := leadingInts.FindString(text)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(math.Max(0, math.Min(10, value)))), true
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
