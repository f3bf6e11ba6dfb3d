// Package domain defines core business entities and value objects for TuneMate.
package domain

import "strings"

// ProviderKind selects the model gateway adapter for a model definition.
type ProviderKind string

const (
	// ProviderGemini talks to Google's Gemini API through the genai SDK.
	ProviderGemini ProviderKind = "gemini"
	// ProviderHTTP is a configuration-driven chat-completion endpoint.
	ProviderHTTP ProviderKind = "http"
	// ProviderOffline answers locally with canned, well-formed output.
	ProviderOffline ProviderKind = "offline"
)

// ModelDefinition describes an AI provider configuration declared in the config file.
// Each model represents a specific AI service endpoint with its authentication and
// generation parameters.
type ModelDefinition struct {
	Name        string          `yaml:"name"`
	Provider    ProviderKind    `yaml:"provider"`
	Endpoint    string          `yaml:"endpoint,omitempty"`
	AuthEnvVar  string          `yaml:"auth_env_var"`
	OrgEnvVar   string          `yaml:"org_env_var,omitempty"`
	ModelID     string          `yaml:"model_id"`
	MaxTokens   int             `yaml:"max_tokens"`
	Temperature float32         `yaml:"temperature,omitempty"`
	System      []PromptMessage `yaml:"system,omitempty"`
	APIFormat   APIFormat       `yaml:"api_format,omitempty"`
}

// Kind returns the provider kind, inferring gemini for an empty value.
func (m ModelDefinition) Kind() ProviderKind {
	if m.Provider == "" {
		return ProviderGemini
	}
	return m.Provider
}

// APIFormat describes the wire shape of a chat-completion endpoint. Preset
// fills in a known vendor shape; explicit fields override it. With neither,
// the endpoint is treated as OpenAI-compatible.
type APIFormat struct {
	Preset string `yaml:"preset,omitempty"`

	// AuthHeaderName defaults to Authorization. Setting it without a prefix
	// sends the raw key (x-api-key style).
	AuthHeaderName   string `yaml:"auth_header_name,omitempty"`
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// SystemMessageMode is inline (in messages) or separate (top-level "system").
	SystemMessageMode string `yaml:"system_message_mode,omitempty"`
	// ContentWrapper is standard (string content) or anthropic (typed blocks).
	ContentWrapper string `yaml:"content_wrapper,omitempty"`
	// ResponseJSONPath locates the answer text, e.g. content[0].text.
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// JSONMode names how to request a JSON-only answer for strict-JSON
	// actions: response_format, format, or empty for none.
	JSONMode string `yaml:"json_mode,omitempty"`

	ExtraHeaders map[string]string      `yaml:"extra_headers,omitempty"`
	ExtraBody    map[string]interface{} `yaml:"extra_body,omitempty"`
}

// PromptMessage follows the role/content pair required by most chat APIs.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	SystemMessageModeInline   = "inline"
	SystemMessageModeSeparate = "separate"

	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	DefaultResponsePath   = "choices[0].message.content"
	AnthropicResponsePath = "content[0].text"
	OllamaResponsePath    = "message.content"

	JSONModeResponseFormat = "response_format"
	JSONModeFormat         = "format"
)

// Known presets.
const (
	PresetOpenAI    = "openai"
	PresetAnthropic = "anthropic"
	PresetOllama    = "ollama"
)

var apiPresets = map[string]APIFormat{
	PresetOpenAI: {
		JSONMode: JSONModeResponseFormat,
	},
	PresetAnthropic: {
		AuthHeaderName:    "x-api-key",
		SystemMessageMode: SystemMessageModeSeparate,
		ContentWrapper:    ContentWrapperAnthropic,
		ResponseJSONPath:  AnthropicResponsePath,
		ExtraHeaders:      map[string]string{"anthropic-version": "2023-06-01"},
	},
	PresetOllama: {
		ResponseJSONPath: OllamaResponsePath,
		JSONMode:         JSONModeFormat,
		ExtraBody:        map[string]interface{}{"stream": false},
	},
}

// PresetNames lists the accepted preset values.
func PresetNames() []string {
	return []string{PresetOpenAI, PresetAnthropic, PresetOllama}
}

// Resolved overlays the explicit fields on the preset. Unknown presets
// resolve to the explicit fields alone.
func (f APIFormat) Resolved() APIFormat {
	base, ok := apiPresets[strings.ToLower(f.Preset)]
	if !ok {
		return f
	}
	out := base
	out.Preset = f.Preset
	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&out.AuthHeaderName, f.AuthHeaderName)
	overlay(&out.AuthHeaderPrefix, f.AuthHeaderPrefix)
	overlay(&out.SystemMessageMode, f.SystemMessageMode)
	overlay(&out.ContentWrapper, f.ContentWrapper)
	overlay(&out.ResponseJSONPath, f.ResponseJSONPath)
	overlay(&out.JSONMode, f.JSONMode)
	out.ExtraHeaders = mergeMaps(base.ExtraHeaders, f.ExtraHeaders)
	out.ExtraBody = mergeMaps(base.ExtraBody, f.ExtraBody)
	return out
}

func mergeMaps[V any](base, over map[string]V) map[string]V {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]V, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix is Bearer only for the default header; a custom header
// name without a prefix sends the bare key.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix != "" {
		return f.AuthHeaderPrefix
	}
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderPrefix
	}
	return ""
}

func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}

func (f APIFormat) IsSystemMessageSeparate() bool {
	return f.SystemMessageMode == SystemMessageModeSeparate
}

func (f APIFormat) IsContentWrapped() bool {
	return f.ContentWrapper == ContentWrapperAnthropic
}
