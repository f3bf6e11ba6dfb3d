// Package doctor runs environment diagnostics for the CLI and health endpoint.
package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/tunemate-go/internal/application/config"
	"github.com/doeshing/tunemate-go/internal/application/prompt"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// Service runs environment diagnostics. History and Cache are optional.
type Service struct {
	ConfigProvider ports.ConfigProvider
	History        ports.HistoryRepository
	Cache          ports.CacheRepository
}

// pinger is implemented by caches backed by a remote server.
type pinger interface {
	Ping(ctx context.Context) error
}

// geminiKeyEnvVars are consulted when a gemini model names no auth_env_var.
var geminiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := config.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format v%s, %d model(s)", cfg.ConfigFormatVersion, len(cfg.Models))))
	}

	checks = append(checks, apiCheck(cfg.Models))
	checks = append(checks, s.historyCheck(ctx, cfg))
	checks = append(checks, s.cacheCheck(ctx, cfg))
	checks = append(checks, actionsCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) historyCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !cfg.History.Enabled {
		return warn("History", "disabled in config")
	}
	if s.History == nil {
		return warn("History", "store not initialized")
	}
	if err := s.History.Ping(ctx); err != nil {
		return fail("History", err.Error())
	}
	return ok("History", s.History.Path())
}

func (s *Service) cacheCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !cfg.Cache.Enabled {
		return ok("Cache", "disabled in config")
	}
	if s.Cache == nil {
		return warn("Cache", "store not initialized")
	}
	backend := cfg.GetCacheBackend()
	if remote, isRemote := s.Cache.(pinger); isRemote {
		if err := remote.Ping(ctx); err != nil {
			return fail("Cache", fmt.Sprintf("%s unreachable: %v", backend, err))
		}
	} else if backend == domain.CacheBackendRedis {
		return warn("Cache", "redis configured but file cache in use")
	}
	return ok("Cache", fmt.Sprintf("%s, ttl %s", backend, cfg.GetCacheTTL()))
}

func apiCheck(models []domain.ModelDefinition) domain.HealthCheck {
	var missing []string
	for _, model := range models {
		switch model.Kind() {
		case domain.ProviderGemini:
			if envMissing(model.AuthEnvVar, geminiKeyEnvVars...) {
				missing = append(missing, fmt.Sprintf("%s (%s)", model.Name, keyName(model.AuthEnvVar, geminiKeyEnvVars[0])))
			}
		case domain.ProviderHTTP:
			if model.AuthEnvVar != "" && envMissing(model.AuthEnvVar) {
				missing = append(missing, fmt.Sprintf("%s (%s)", model.Name, model.AuthEnvVar))
			}
		}
	}
	if len(missing) > 0 {
		return warn("API keys", "missing for "+strings.Join(missing, ", "))
	}
	return ok("API keys", "detected for configured providers")
}

func actionsCheck() domain.HealthCheck {
	var missing []string
	for _, action := range domain.KnownActions() {
		if !prompt.Has(action) {
			missing = append(missing, action.String())
		}
	}
	if len(missing) > 0 {
		return fail("Actions", "no prompt for "+strings.Join(missing, ", "))
	}
	return ok("Actions", strings.Join(domain.KnownActionNames(), ", "))
}

func envMissing(primary string, fallbacks ...string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	for _, name := range fallbacks {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return true
}

func keyName(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
