// Package llm provides clients for the third-party text-generation services that
// produce career recommendations. A Client makes one attempt against the primary
// provider and at most one against a configured fallback.
package llm

import "time"

// ProviderKind identifies a generation provider implementation.
type ProviderKind string

// Supported generation providers.
const (
	// ProviderOllama is an Ollama-compatible /api/generate endpoint.
	ProviderOllama ProviderKind = "ollama"
	// ProviderHuggingFace is the token-authenticated Hugging Face inference API.
	ProviderHuggingFace ProviderKind = "huggingface"
	// ProviderGemini is Google Gemini via generative-ai-go.
	ProviderGemini ProviderKind = "gemini"
)

// Default provider settings.
const (
	DefaultOllamaURL        = "http://localhost:11434"
	DefaultOllamaModel      = "llama3.2"
	DefaultHuggingFaceURL   = "https://api-inference.huggingface.co/models"
	DefaultHuggingFaceModel = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultTimeout          = 2 * time.Minute
)

// ProviderConfig configures a single provider.
type ProviderConfig struct {
	Kind    ProviderKind
	BaseURL string
	Model   string
	APIKey  string
}

// Config holds the generation client configuration.
type Config struct {
	Primary ProviderConfig
	// Fallback is nil when no secondary provider is configured.
	Fallback *ProviderConfig
	// Timeout bounds each provider attempt.
	Timeout time.Duration
}

// DefaultConfig returns a local Ollama primary with no fallback.
func DefaultConfig() *Config {
	return &Config{
		Primary: ProviderConfig{
			Kind:    ProviderOllama,
			BaseURL: DefaultOllamaURL,
			Model:   DefaultOllamaModel,
		},
		Timeout: DefaultTimeout,
	}
}

// HasFallback reports whether a secondary provider is configured.
func (c *Config) HasFallback() bool {
	return c.Fallback != nil
}
