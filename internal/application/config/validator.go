// Package config validates user configuration before it is used.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/doeshing/tunemate-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	seen := make(map[string]struct{}, len(cfg.Models))
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
		if _, dup := seen[model.Name]; dup {
			return fmt.Errorf("model %s declared more than once", model.Name)
		}
		seen[model.Name] = struct{}{}
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		return errors.New("preferences.timeout must be >= 0")
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New("models[].name must be set")
	}
	switch model.Kind() {
	case domain.ProviderGemini, domain.ProviderOffline:
	case domain.ProviderHTTP:
		if model.Endpoint == "" {
			return fmt.Errorf("model %s: endpoint required for http provider", model.Name)
		}
		if _, err := url.ParseRequestURI(model.Endpoint); err != nil {
			return fmt.Errorf("model %s: endpoint invalid: %w", model.Name, err)
		}
		if preset := model.APIFormat.Preset; preset != "" && !slices.Contains(domain.PresetNames(), strings.ToLower(preset)) {
			return fmt.Errorf("model %s: api_format.preset must be one of %s, got %s",
				model.Name, strings.Join(domain.PresetNames(), "|"), preset)
		}
	default:
		return fmt.Errorf("model %s: provider must be gemini|http|offline, got %s", model.Name, model.Provider)
	}
	if model.MaxTokens < 0 {
		return fmt.Errorf("model %s: max_tokens must be >= 0", model.Name)
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	switch strings.ToLower(cache.Backend) {
	case "", domain.CacheBackendFile:
	case domain.CacheBackendRedis:
		if cache.Enabled && cache.RedisURL == "" {
			return errors.New("cache.redis_url must be set for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be file|redis, got %s", cache.Backend)
	}
	if cache.TTLMinutes < 0 {
		return errors.New("cache.ttl_minutes must be >= 0")
	}
	if cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be >= 0")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch strings.ToLower(history.Backend) {
	case "", domain.HistoryBackendSQLite, domain.HistoryBackendFile:
	default:
		return fmt.Errorf("history.backend must be sqlite|file, got %s", history.Backend)
	}
	if history.RetentionDays < 0 {
		return errors.New("history.retention_days must be >= 0")
	}
	return nil
}
