package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
)

func TestFactoryForModel(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name     string
		model    domain.ModelDefinition
		wantName string
		wantErr  bool
	}{
		{name: "gemini default kind", model: domain.ModelDefinition{Name: "g"}, wantName: "gemini"},
		{name: "http", model: domain.ModelDefinition{Name: "h", Provider: domain.ProviderHTTP, Endpoint: "http://localhost:11434/v1/chat/completions"}, wantName: "http"},
		{name: "http without endpoint", model: domain.ModelDefinition{Name: "h2", Provider: domain.ProviderHTTP}, wantErr: true},
		{name: "offline", model: domain.ModelDefinition{Name: "o", Provider: domain.ProviderOffline}, wantName: "offline"},
		{name: "unknown", model: domain.ModelDefinition{Name: "u", Provider: "smoke-signal"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.ForModel(tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
			assert.Equal(t, tt.model.Name, provider.Model().Name)
		})
	}
}

func TestFactoryReusesProviders(t *testing.T) {
	factory := NewFactory()
	model := domain.ModelDefinition{Name: "g", Provider: domain.ProviderGemini}

	first, err := factory.ForModel(model)
	require.NoError(t, err)
	second, err := factory.ForModel(model)
	require.NoError(t, err)
	assert.Same(t, first, second)

	factory.Reset()
	third, err := factory.ForModel(model)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
