package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

const geminiProviderName = "gemini"

// geminiKeyEnvVars are consulted when the model names no auth_env_var.
var geminiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// geminiProvider calls the Gemini API. The genai client is created on the
// first Generate call and reused afterwards.
type geminiProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
	// baseURL overrides the API host; tests point it at httptest servers.
	baseURL string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func newGeminiProvider(model domain.ModelDefinition, client *http.Client) *geminiProvider {
	return &geminiProvider{
		model:      model,
		httpClient: client,
		baseURL:    model.Endpoint,
	}
}

func (p *geminiProvider) Name() string {
	return geminiProviderName
}

func (p *geminiProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *geminiProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	client, err := p.ensureClient(ctx)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, p.modelID(), genai.Text(req.Prompt), p.generateConfig(req))
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("gemini generate: %w", err)
	}

	return ports.ProviderResponse{Text: resp.Text()}, nil
}

func (p *geminiProvider) ensureClient(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		apiKey := lookupAPIKey(p.model.AuthEnvVar, geminiKeyEnvVars...)
		if apiKey == "" {
			name := p.model.AuthEnvVar
			if name == "" {
				name = strings.Join(geminiKeyEnvVars, " or ")
			}
			p.initErr = fmt.Errorf("missing API key: set %s", name)
			return
		}

		cfg := &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: p.httpClient,
		}
		if p.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
		}
		p.client, p.initErr = genai.NewClient(ctx, cfg)
		if p.initErr != nil {
			p.initErr = fmt.Errorf("create gemini client: %w", p.initErr)
		}
	})
	return p.client, p.initErr
}

func (p *geminiProvider) generateConfig(req ports.ProviderRequest) *genai.GenerateContentConfig {
	maxTokens := p.model.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if p.model.Temperature > 0 {
		cfg.Temperature = genai.Ptr(p.model.Temperature)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if system := systemInstruction(p.model.System); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

func (p *geminiProvider) modelID() string {
	if p.model.ModelID == "" {
		return domain.DefaultGeminiModel
	}
	return p.model.ModelID
}

// systemInstruction joins the model's system messages. Templates are not
// expanded here; Gemini receives the action prompt as plain user content.
func systemInstruction(messages []domain.PromptMessage) string {
	var lines []string
	for _, msg := range messages {
		if strings.EqualFold(msg.Role, "system") {
			lines = append(lines, strings.TrimSpace(msg.Content))
		}
	}
	return strings.Join(lines, "\n")
}

func lookupAPIKey(primary string, fallbacks ...string) string {
	for _, name := range append([]string{primary}, fallbacks...) {
		if name == "" {
			continue
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
