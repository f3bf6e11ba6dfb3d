package process

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/doeshing/tunemate-go/internal/application/prompt"
	"github.com/doeshing/tunemate-go/internal/application/structuring"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// Question generates one practice question. An answer that does not decode
// is replaced by a canned question of the same type; only validation and
// model failures are errors. Questions are neither cached nor recorded.
func (s *Service) Question(req domain.QuestionRequest) (domain.QuestionResult, error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Logger == nil {
		return domain.QuestionResult{}, errors.New("process.Service dependencies not satisfied")
	}

	qtype, ok := domain.ParseQuestionType(req.Type)
	if !ok {
		return domain.QuestionResult{}, &domain.ValidationError{
			Field: "questionType",
			Err:   fmt.Errorf("%w: %q", domain.ErrUnknownQuestionType, req.Type),
		}
	}
	difficulty, ok := domain.ParseDifficulty(req.Difficulty)
	if !ok {
		return domain.QuestionResult{}, &domain.ValidationError{
			Field: "difficulty",
			Err:   fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, req.Difficulty),
		}
	}
	if qtype == domain.QuestionRandom {
		known := domain.KnownQuestionTypes()
		qtype = known[s.intn(len(known))]
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.QuestionResult{}, fmt.Errorf("load config: %w", err)
	}
	modelDef, err := cfg.PickModel(req.ModelOverride)
	if err != nil {
		return domain.QuestionResult{}, err
	}

	promptText, err := prompt.BuildQuestion(qtype, difficulty, req.Topic)
	if err != nil {
		return domain.QuestionResult{}, fmt.Errorf("build prompt: %w", err)
	}
	raw, err := s.generate(ctx, cfg, modelDef, ports.ProviderRequest{Prompt: promptText, Question: qtype, JSON: true})
	if err != nil {
		return domain.QuestionResult{}, err
	}

	question, outcome := structuring.ParseQuestion(raw, qtype, s.intn(1<<16))
	if outcome != domain.OutcomeParsed {
		s.Logger.Warn("question answer did not decode, using a canned question", map[string]interface{}{
			"questionType": string(qtype),
			"rawLength":    len(raw),
		})
	}
	return domain.QuestionResult{
		Question:   question,
		Difficulty: difficulty,
		Outcome:    outcome,
		Model:      modelDef.Name,
	}, nil
}

func (s *Service) intn(n int) int {
	if s.Intn != nil {
		return s.Intn(n)
	}
	return rand.IntN(n)
}
