// Package process implements the process use case: validate the request,
// call the model, structure its answer and record the attempt.
package process

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/tunemate-go/internal/application/prompt"
	"github.com/doeshing/tunemate-go/internal/application/structuring"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// Service orchestrates one request end to end. History and Cache are optional.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	History         ports.HistoryRecorder
	Cache           ports.CacheRepository
	Pipeline        *structuring.Pipeline
	Logger          ports.Logger
	// Intn picks random question types and fallbacks; nil uses math/rand/v2.
	Intn func(n int) int
}

var (
	_ domain.ProcessService  = (*Service)(nil)
	_ domain.QuestionService = (*Service)(nil)
)

// Process runs a single request. Only validation failures and model
// failures are returned as errors; a model answer that does not parse still
// yields a degraded result.
func (s *Service) Process(req domain.ProcessRequest) (domain.ProcessResult, error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Logger == nil {
		return domain.ProcessResult{}, errors.New("process.Service dependencies not satisfied")
	}

	action, text, err := Validate(req)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ProcessResult{}, fmt.Errorf("load config: %w", err)
	}

	modelDef, err := cfg.PickModel(req.ModelOverride)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	reference := strings.TrimSpace(req.Reference)
	if action == domain.ActionTranslate && reference == "" {
		reference = cfg.GetTargetLanguage()
	}

	promptText, err := prompt.Build(action, text, reference)
	if err != nil {
		return domain.ProcessResult{}, fmt.Errorf("build prompt: %w", err)
	}

	key := cacheKey(action, modelDef.Name, text, reference)
	raw, fromCache := s.cached(ctx, cfg, key)
	if !fromCache {
		raw, err = s.generate(ctx, cfg, modelDef, ports.ProviderRequest{
			Prompt: promptText,
			Action: action,
			JSON:   structuring.ProfileFor(action).ExpectsJSON(),
		})
		if err != nil {
			return domain.ProcessResult{}, err
		}
		s.store(ctx, cfg, domain.CacheEntry{
			Key:         key,
			Action:      action,
			Model:       modelDef.Name,
			RawResponse: raw,
			CreatedAt:   time.Now(),
		})
	}

	resp := s.pipeline().Structure(raw, action, structuring.Input{Text: text, Reference: reference})
	switch resp.Outcome {
	case domain.OutcomeFailed:
		s.Logger.Error("structuring pipeline failed", errors.New("pipeline recovered"), map[string]interface{}{
			"action": string(action),
			"tier":   int(resp.Tier),
		})
	case domain.OutcomeDegraded:
		s.Logger.Warn("response structured with fallback", map[string]interface{}{
			"action":  string(action),
			"tier":    int(resp.Tier),
			"outcome": string(resp.Outcome),
		})
	}

	info := domain.ProcessingInfo{
		OptionsFound:      len(resp.Options),
		RawResponseLength: len(raw),
		ProcessingSuccess: resp.Success,
		FromCache:         fromCache,
		Model:             modelDef.Name,
	}
	info.HistoryID, info.DatabaseSaved = s.record(ctx, req, action, text, resp)

	return domain.ProcessResult{Response: resp, ProcessingInfo: info}, nil
}

// Validate checks the inbound request and returns the parsed action and
// trimmed text.
func Validate(req domain.ProcessRequest) (domain.Action, string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", "", &domain.ValidationError{Field: "text", Err: domain.ErrMissingText}
	}
	if strings.TrimSpace(req.Action) == "" {
		return "", "", &domain.ValidationError{Field: "action", Err: domain.ErrMissingAction}
	}
	action, ok := domain.ParseAction(req.Action)
	if !ok {
		return "", "", &domain.ValidationError{
			Field: "action",
			Err:   fmt.Errorf("%w: %q", domain.ErrUnknownAction, req.Action),
		}
	}
	return action, text, nil
}

func (s *Service) generate(ctx context.Context, cfg domain.Config, modelDef domain.ModelDefinition, req ports.ProviderRequest) (string, error) {
	provider, err := s.ProviderFactory.ForModel(modelDef)
	if err != nil {
		return "", fmt.Errorf("%w: provider init: %w", domain.ErrModelUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.GetTimeout())
	defer cancel()

	fields := map[string]interface{}{
		"provider": provider.Name(),
		"model":    modelDef.Name,
	}
	if req.Question != "" {
		fields["question"] = string(req.Question)
	} else {
		fields["action"] = string(req.Action)
	}
	s.Logger.Info("calling provider", fields)

	out, err := provider.Generate(ctx, req)
	if err != nil {
		s.Logger.Error("provider generate failed", err, fields)
		return "", fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	return out.Text, nil
}

func (s *Service) cached(ctx context.Context, cfg domain.Config, key string) (string, bool) {
	if s.Cache == nil || !cfg.Cache.Enabled {
		return "", false
	}
	entry, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	if !ok {
		return "", false
	}
	s.Logger.Debug("cache hit", map[string]interface{}{"key": key})
	return entry.RawResponse, true
}

func (s *Service) store(ctx context.Context, cfg domain.Config, entry domain.CacheEntry) {
	if s.Cache == nil || !cfg.Cache.Enabled {
		return
	}
	if err := s.Cache.Set(ctx, entry); err != nil {
		s.Logger.Warn("cache store failed", map[string]interface{}{"error": err.Error()})
	}
}

// record appends the attempt to history. Failures are logged and reported
// through the saved flag, never returned. A store that persisted the entry
// but failed afterwards (retention pruning) still returns its ID, and the
// entry counts as saved.
func (s *Service) record(ctx context.Context, req domain.ProcessRequest, action domain.Action, text string, resp domain.StructuredResponse) (string, bool) {
	if s.History == nil {
		return "", false
	}
	entry := domain.HistoryEntry{
		ID:            uuid.NewString(),
		InputText:     text,
		ReferenceText: strings.TrimSpace(req.Reference),
		Action:        action,
		Result:        resp,
		Timestamp:     resp.Timestamp,
		Provenance:    req.Provenance,
		Searchable:    domain.NewSearchableFields(resp),
	}
	id, err := s.History.Append(ctx, entry)
	if err != nil {
		s.Logger.Warn("history append failed", map[string]interface{}{
			"action": string(action),
			"id":     id,
			"error":  err.Error(),
		})
		if id == "" {
			return "", false
		}
	}
	return id, true
}

func (s *Service) pipeline() *structuring.Pipeline {
	if s.Pipeline == nil {
		return structuring.NewPipeline()
	}
	return s.Pipeline
}

// cacheKey fingerprints everything that shapes the model's answer.
func cacheKey(action domain.Action, model, text, reference string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{string(action), model, text, reference}, "\x00")))
	return hex.EncodeToString(sum[:])
}
