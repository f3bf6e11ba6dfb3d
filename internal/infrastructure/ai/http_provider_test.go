package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

func TestHTTPProviderOpenAIFormat(t *testing.T) {
	t.Setenv("TEST_CHAT_KEY", "secret")

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  1. **Reply:** hi  "}}]}`))
	}))
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:       "chat",
		Provider:   domain.ProviderHTTP,
		Endpoint:   srv.URL,
		AuthEnvVar: "TEST_CHAT_KEY",
		ModelID:    "gpt-test",
		MaxTokens:  256,
		APIFormat:  domain.APIFormat{ExtraHeaders: map[string]string{"X-Extra": "yes"}},
	}
	provider := newHTTPProvider(model, srv.Client())

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "Fix this", Action: domain.ActionGrammar})
	require.NoError(t, err)
	assert.Equal(t, "1. **Reply:** hi", resp.Text)

	assert.Equal(t, "gpt-test", got["model"])
	assert.EqualValues(t, 256, got["max_tokens"])
	messages, ok := got["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	last := messages[1].(map[string]interface{})
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "Fix this", last["content"])
}

func TestHTTPProviderAnthropicFormat(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "k")

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"translated\":\"hola\"}"}]}`))
	}))
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:       "claude",
		Provider:   domain.ProviderHTTP,
		Endpoint:   srv.URL,
		AuthEnvVar: "TEST_ANTHROPIC_KEY",
		APIFormat: domain.APIFormat{
			AuthHeaderName:    "x-api-key",
			SystemMessageMode: domain.SystemMessageModeSeparate,
			ContentWrapper:    domain.ContentWrapperAnthropic,
			ResponseJSONPath:  domain.AnthropicResponsePath,
		},
	}
	provider := newHTTPProvider(model, srv.Client())

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "Translate", Action: domain.ActionTranslate, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"translated":"hola"}`, resp.Text)
	assert.Contains(t, got["system"], "Answer with JSON only")
	messages := got["messages"].([]interface{})
	require.Len(t, messages, 1)
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	assert.Equal(t, "Translate", content[0].(map[string]interface{})["text"])
}

func TestHTTPProviderOllamaPresetJSONMode(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"options\":[\"a\"]}"}}`))
	}))
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:      "local",
		Provider:  domain.ProviderHTTP,
		Endpoint:  srv.URL,
		ModelID:   "llama3.2",
		APIFormat: domain.APIFormat{Preset: domain.PresetOllama},
	}
	provider := newHTTPProvider(model, srv.Client())

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "Be polite", Action: domain.ActionPolite, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"options":["a"]}`, resp.Text)
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, "json", got["format"])
	assert.NotContains(t, got, "response_format")
}

func TestHTTPProviderErrors(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		provider := newHTTPProvider(domain.ModelDefinition{Name: "x", Endpoint: srv.URL}, srv.Client())
		_, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "p"})
		assert.ErrorContains(t, err, "HTTP 429")
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv("TEST_UNSET_KEY", "")
		provider := newHTTPProvider(domain.ModelDefinition{Name: "x", Endpoint: "http://127.0.0.1:1", AuthEnvVar: "TEST_UNSET_KEY"}, http.DefaultClient)
		_, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "p"})
		assert.ErrorContains(t, err, "missing API key")
	})

	t.Run("bad path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		provider := newHTTPProvider(domain.ModelDefinition{Name: "x", Endpoint: srv.URL}, srv.Client())
		_, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "p"})
		assert.ErrorContains(t, err, "out of bounds")
	})
}

func TestExtractJSONPath(t *testing.T) {
	data := map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{"message": map[string]interface{}{"content": "hello"}},
		},
		"count": 3.0,
	}

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "choices[0].message.content", want: "hello"},
		{path: "choices[1].message.content", wantErr: true},
		{path: "missing", wantErr: true},
		{path: "count", wantErr: true},
		{path: "choices.message", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := extractJSONPath(data, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSONPath(t *testing.T) {
	got := parseJSONPath("content[0].text")
	assert.Equal(t, []pathPart{
		{kind: "field", value: "content"},
		{kind: "index", value: "0"},
		{kind: "field", value: "text"},
	}, got)
}
