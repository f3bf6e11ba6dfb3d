package config

import (
	"strings"
	"testing"

	"github.com/doeshing/tunemate-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "gemini-flash"},
		Models: []domain.ModelDefinition{
			{Name: "gemini-flash", Provider: domain.ProviderGemini, ModelID: "gemini-2.0-flash"},
			{Name: "local", Provider: domain.ProviderHTTP, Endpoint: "http://localhost:11434/v1/chat/completions"},
			{Name: "offline", Provider: domain.ProviderOffline},
		},
		History: domain.HistorySettings{Backend: domain.HistoryBackendSQLite, RetentionDays: 30},
		Cache:   domain.CacheSettings{Backend: domain.CacheBackendFile, TTLMinutes: 60, MaxEntries: 100},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "no models", mutate: func(c *domain.Config) { c.Models = nil }, wantErr: "at least one model"},
		{name: "unknown default", mutate: func(c *domain.Config) { c.Preferences.DefaultModel = "ghost" }, wantErr: "does not exist"},
		{name: "duplicate model", mutate: func(c *domain.Config) { c.Models = append(c.Models, c.Models[0]) }, wantErr: "more than once"},
		{name: "http without endpoint", mutate: func(c *domain.Config) { c.Models[1].Endpoint = "" }, wantErr: "endpoint required"},
		{name: "unknown preset", mutate: func(c *domain.Config) { c.Models[1].APIFormat.Preset = "cohere" }, wantErr: "api_format.preset"},
		{name: "known preset", mutate: func(c *domain.Config) { c.Models[1].APIFormat.Preset = "Ollama" }},
		{name: "bad provider", mutate: func(c *domain.Config) { c.Models[0].Provider = "carrier-pigeon" }, wantErr: "provider must be"},
		{name: "redis without url", mutate: func(c *domain.Config) {
			c.Cache.Enabled = true
			c.Cache.Backend = domain.CacheBackendRedis
		}, wantErr: "redis_url"},
		{name: "bad history backend", mutate: func(c *domain.Config) { c.History.Backend = "mongo" }, wantErr: "history.backend"},
		{name: "negative retention", mutate: func(c *domain.Config) { c.History.RetentionDays = -1 }, wantErr: "retention_days"},
		{name: "negative timeout", mutate: func(c *domain.Config) { c.Preferences.TimeoutSeconds = -5 }, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
