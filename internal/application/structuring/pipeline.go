package structuring

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/doeshing/tunemate-go/internal/domain"
)

// Input is the user text a response was generated for. Strict JSON
// fallbacks build their defaults from it.
type Input struct {
	Text string
	// Reference is the reply context, the translation target language or
	// the evaluated question, depending on the action.
	Reference string
}

// Pipeline structures raw model text. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	Segmenter Segmenter
	Extractor *Extractor
	Now       func() time.Time
}

// NewPipeline returns a pipeline with the default segmenter and extractor.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Segmenter: HeaderSegmenter{},
		Extractor: NewExtractor(),
		Now:       time.Now,
	}
}

// Structure converts raw model output for action into a response. It never
// fails: every irregularity is absorbed by a fallback tier.
func (p *Pipeline) Structure(raw string, action domain.Action, input Input) (resp domain.StructuredResponse) {
	now := p.now()
	defer func() {
		if r := recover(); r != nil {
			resp = PipelineFailure(raw, action, now)
		}
	}()

	profile := ProfileFor(action)
	switch profile.Layout {
	case domain.LayoutOptionsJSON:
		resp = p.structureOptions(raw, profile, input, now)
	case domain.LayoutTranslationJSON:
		resp = p.structureTranslation(raw, profile, input, now)
	case domain.LayoutEvaluationJSON:
		resp = p.structureEvaluation(raw, profile, input, now)
	default:
		resp = p.structureSegmented(raw, action, now)
	}

	if len(resp.Options) == 0 {
		return PipelineFailure(raw, action, now)
	}
	resp.Metadata.TotalOptions = len(resp.Options)
	return resp
}

func (p *Pipeline) structureSegmented(raw string, action domain.Action, now time.Time) domain.StructuredResponse {
	segments := p.Segmenter.Split(raw)
	if len(segments) == 0 {
		return WholeResponse(raw, action, now)
	}
	options := make([]domain.OptionRecord, 0, len(segments))
	for i, segment := range segments {
		options = append(options, p.Extractor.Extract(segment, i))
	}
	return Assemble(raw, action, options, now)
}

func (p *Pipeline) structureOptions(raw string, profile Profile, input Input, now time.Time) domain.StructuredResponse {
	entries, err := decodeOptionList(raw)
	kept := len(cleanList(entries))
	if err != nil || kept == 0 {
		return p.optionsResponse(raw, profile, DefaultOptions(profile, input.Text), 0, domain.TierDefaulted, now)
	}

	texts, padded := NormalizeOptions(profile, entries, input.Text)
	tier := domain.TierNone
	if padded {
		tier = domain.TierSegment
	}
	return p.optionsResponse(raw, profile, texts, min(kept, len(texts)), tier, now)
}

// optionsResponse builds records for an option list. The first parsed
// entries are standard; the rest came from templates.
func (p *Pipeline) optionsResponse(raw string, profile Profile, texts []string, parsed int, tier domain.Tier, now time.Time) domain.StructuredResponse {
	options := make([]domain.OptionRecord, 0, len(texts))
	for i, text := range texts {
		kind := domain.OptionStandard
		if i >= parsed {
			kind = domain.OptionFallback
		}
		options = append(options, domain.OptionRecord{
			ID:      optionID(i),
			Title:   profile.titleAt(i),
			Content: text,
			Type:    kind,
		})
	}
	resp := domain.StructuredResponse{
		Action:        profile.Action,
		Timestamp:     now,
		RawResponse:   raw,
		Options:       options,
		Encouragement: Encouragement(profile.Action),
		Success:       true,
	}
	setTier(&resp, tier)
	resp.Metadata = metadataFor(options, tier == domain.TierDefaulted)
	return resp
}

func (p *Pipeline) structureTranslation(raw string, profile Profile, input Input, now time.Time) domain.StructuredResponse {
	language := strings.TrimSpace(input.Reference)
	if language == "" {
		language = domain.DefaultTargetLanguage
	}

	tier := domain.TierNone
	kind := domain.OptionStandard
	translated, err := decodeTranslation(raw)
	if err != nil {
		translated = translationFallback(raw, input.Text)
		tier = domain.TierDefaulted
		kind = domain.OptionFallback
	}

	options := []domain.OptionRecord{{
		ID:      optionID(0),
		Title:   fmt.Sprintf("Translation (%s)", capitalize(language)),
		Content: translated,
		Note:    "Target language: " + language,
		Type:    kind,
	}}
	resp := domain.StructuredResponse{
		Action:        profile.Action,
		Timestamp:     now,
		RawResponse:   raw,
		Options:       options,
		Encouragement: Encouragement(profile.Action),
		Success:       true,
	}
	setTier(&resp, tier)
	resp.Metadata = metadataFor(options, tier == domain.TierDefaulted)
	return resp
}

// translationFallback keeps a plain-text answer when the model ignored the
// JSON instruction, and echoes the input otherwise.
func translationFallback(raw, text string) string {
	plain := stripCodeFences(raw)
	if plain != "" && !strings.ContainsAny(plain[:1], "{[") {
		return plain
	}
	return strings.TrimSpace(text)
}

func (p *Pipeline) structureEvaluation(raw string, profile Profile, input Input, now time.Time) domain.StructuredResponse {
	tier := domain.TierNone
	evaluation, complete, err := decodeEvaluation(raw, input.Text)
	switch {
	case err != nil:
		evaluation = DefaultEvaluation(input.Text)
		tier = domain.TierDefaulted
	case !complete:
		tier = domain.TierSegment
	}

	kind := domain.OptionStandard
	if tier != domain.TierNone {
		kind = domain.OptionFallback
	}
	options := []domain.OptionRecord{{
		ID:          optionID(0),
		Title:       "Improved Answer",
		Content:     evaluation.Improved,
		Note:        fmt.Sprintf("Score: %d/10", evaluation.Score),
		Explanation: evaluation.Feedback,
		Type:        kind,
	}}
	resp := domain.StructuredResponse{
		Action:        profile.Action,
		Timestamp:     now,
		RawResponse:   raw,
		Options:       options,
		Encouragement: Encouragement(profile.Action),
		Success:       true,
		Evaluation:    &evaluation,
	}
	setTier(&resp, tier)
	resp.Metadata = metadataFor(options, tier == domain.TierDefaulted)
	return resp
}

// decodeEvaluation reads the evaluation object. Missing fields are filled
// from the defaults and reported through complete=false.
func decodeEvaluation(raw, answer string) (domain.Evaluation, bool, error) {
	var payload evaluationPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return domain.Evaluation{}, false, err
	}

	defaults := DefaultEvaluation(answer)
	complete := true
	evaluation := domain.Evaluation{
		Feedback:  strings.TrimSpace(payload.Feedback),
		Mistakes:  cleanList(payload.Mistakes),
		Improved:  strings.TrimSpace(payload.Improved),
		Strengths: cleanList(payload.Strengths),
	}
	if score, ok := parseScore(payload.Score); ok {
		evaluation.Score = score
	} else {
		evaluation.Score = defaults.Score
		complete = false
	}
	if evaluation.Feedback == "" {
		evaluation.Feedback = defaults.Feedback
		complete = false
	}
	if evaluation.Improved == "" {
		evaluation.Improved = defaults.Improved
		complete = false
	}
	return evaluation, complete, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
