// Package ai implements the model gateway.
//
// Three provider kinds are supported, selected by the model's provider field:
//   - gemini: Google's Gemini API through the genai SDK
//   - http: any chat-completion style endpoint, shaped by the model's APIFormat
//   - offline: canned, well-formed answers for demos and tests
package ai

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// Factory creates providers and reuses them per model name, so each Gemini
// model keeps one lazily created client for the life of the process.
type Factory struct {
	httpClient *http.Client

	mu        sync.Mutex
	providers map[string]ports.Provider
}

// NewFactory creates a new provider factory with a configured HTTP client.
func NewFactory() *Factory {
	return NewFactoryWithClient(&http.Client{Timeout: domain.DefaultHTTPClientTimeout})
}

// NewFactoryWithClient creates a factory whose providers share client.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{
		httpClient: client,
		providers:  make(map[string]ports.Provider),
	}
}

// ForModel returns the provider for model, creating it on first use.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := string(model.Kind()) + "/" + model.Name
	if provider, ok := f.providers[key]; ok {
		return provider, nil
	}

	var provider ports.Provider
	switch model.Kind() {
	case domain.ProviderGemini:
		provider = newGeminiProvider(model, f.httpClient)
	case domain.ProviderHTTP:
		if model.Endpoint == "" {
			return nil, fmt.Errorf("model %s: http provider requires an endpoint", model.Name)
		}
		provider = newHTTPProvider(model, f.httpClient)
	case domain.ProviderOffline:
		provider = newOfflineProvider(model)
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", model.Kind())
	}

	f.providers[key] = provider
	return provider, nil
}

// Reset drops cached providers. The next ForModel call builds fresh ones.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers = make(map[string]ports.Provider)
}

var _ ports.ProviderFactory = (*Factory)(nil)
