// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The structuring pipeline is pure; everything it
// depends on at runtime (the generative model, the history store, the response
// cache, configuration and logging) sits behind one of these interfaces.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/tunemate-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.tunemate/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds model gateway instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider is the model gateway: a prompt goes in, raw text comes out.
// Any error is terminal for the request; callers never retry.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries the rendered prompt to the model.
type ProviderRequest struct {
	Prompt string
	Action domain.Action
	// Question is set instead of Action when the prompt asks for a
	// practice question of that type.
	Question domain.QuestionType
	// JSON hints that the prompt asks for a strict JSON answer, letting
	// providers that support it request a JSON response type.
	JSON bool
}

// ProviderResponse is the unmodified model output.
type ProviderResponse struct {
	Text string
}

// HistoryRecorder is the append side of the history store.
type HistoryRecorder interface {
	Append(context.Context, domain.HistoryEntry) (string, error)
}

// HistoryRepository persists and queries history entries.
type HistoryRepository interface {
	HistoryRecorder
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	ByAction(ctx context.Context, action domain.Action, limit int) ([]domain.HistoryEntry, error)
	ByDateRange(ctx context.Context, start, end time.Time, limit int) ([]domain.HistoryEntry, error)
	Search(ctx context.Context, term string, limit int) ([]domain.HistoryEntry, error)
	Stats(ctx context.Context) (domain.HistoryStats, error)
	PruneOlderThan(ctx context.Context, days int) (int, error)
	SetRetentionDays(days int)
	Clear(ctx context.Context) error
	ExportJSON(ctx context.Context, dest string) error
	Ping(ctx context.Context) error
	Path() string
	Close() error
}

// CacheRepository stores raw model responses keyed by request fingerprint.
type CacheRepository interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, bool, error)
	Set(ctx context.Context, entry domain.CacheEntry) error
	Clear(ctx context.Context) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
