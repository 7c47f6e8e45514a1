// Package config loads service configuration from JSON or YAML files and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/career-mentor/internal/llm"
)

// Config represents the service configuration. All fields are optional; missing
// values fall back to Default() and can be overridden by environment variables.
type Config struct {
	Port           int              `json:"port,omitempty" yaml:"port,omitempty"`
	DatabaseURL    string           `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	AllowedOrigins []string         `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	AdminEmails    []string         `json:"admin_emails,omitempty" yaml:"admin_emails,omitempty"`
	Generation     GenerationConfig `json:"generation,omitempty" yaml:"generation,omitempty"`
}

// GenerationConfig selects and configures the text-generation providers.
type GenerationConfig struct {
	Provider          string `json:"provider,omitempty" yaml:"provider,omitempty"`
	FallbackProvider  string `json:"fallback_provider,omitempty" yaml:"fallback_provider,omitempty"`
	OllamaURL         string `json:"ollama_url,omitempty" yaml:"ollama_url,omitempty"`
	OllamaModel       string `json:"ollama_model,omitempty" yaml:"ollama_model,omitempty"`
	HuggingFaceURL    string `json:"huggingface_url,omitempty" yaml:"huggingface_url,omitempty"`
	HuggingFaceModel  string `json:"huggingface_model,omitempty" yaml:"huggingface_model,omitempty"`
	HuggingFaceAPIKey string `json:"huggingface_api_key,omitempty" yaml:"huggingface_api_key,omitempty"`
	GeminiModel       string `json:"gemini_model,omitempty" yaml:"gemini_model,omitempty"`
	GeminiAPIKey      string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	// Timeout is a Go duration string bounding each provider attempt, e.g. "2m".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Default returns the built-in configuration: port 8080, in-memory storage and a
// local Ollama provider with no fallback.
func Default() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000"},
		Generation: GenerationConfig{
			Provider:         string(llm.ProviderOllama),
			OllamaURL:        llm.DefaultOllamaURL,
			OllamaModel:      llm.DefaultOllamaModel,
			HuggingFaceURL:   llm.DefaultHuggingFaceURL,
			HuggingFaceModel: llm.DefaultHuggingFaceModel,
			GeminiModel:      llm.DefaultGeminiModel,
			Timeout:          llm.DefaultTimeout.String(),
		},
	}
}

// LoadConfig loads configuration from a .json, .yaml or .yml file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	g := c.Generation
	switch llm.ProviderKind(g.Provider) {
	case "", llm.ProviderOllama:
	case llm.ProviderGemini:
		if g.GeminiAPIKey == "" {
			return fmt.Errorf("config error: gemini provider requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("config error: unsupported generation provider %q", g.Provider)
	}

	switch llm.ProviderKind(g.FallbackProvider) {
	case "", llm.ProviderHuggingFace, llm.ProviderGemini:
	default:
		return fmt.Errorf("config error: unsupported fallback provider %q", g.FallbackProvider)
	}

	if g.Timeout != "" {
		d, err := time.ParseDuration(g.Timeout)
		if err != nil {
			return fmt.Errorf("config error: invalid generation timeout %q: %w", g.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: generation timeout must be positive")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if len(result.AdminEmails) == 0 {
		result.AdminEmails = defaults.AdminEmails
	}

	g, d := &result.Generation, defaults.Generation
	for _, f := range []struct{ dst *string; src string }{
		{&g.Provider, d.Provider},
		{&g.FallbackProvider, d.FallbackProvider},
		{&g.OllamaURL, d.OllamaURL},
		{&g.OllamaModel, d.OllamaModel},
		{&g.HuggingFaceURL, d.HuggingFaceURL},
		{&g.HuggingFaceModel, d.HuggingFaceModel},
		{&g.HuggingFaceAPIKey, d.HuggingFaceAPIKey},
		{&g.GeminiModel, d.GeminiModel},
		{&g.GeminiAPIKey, d.GeminiAPIKey},
		{&g.Timeout, d.Timeout},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}

	return result
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := getenv("ADMIN_EMAILS"); v != "" {
		c.AdminEmails = splitList(v)
	}

	g := &c.Generation
	for env, dst := range map[string]*string{
		"DATABASE_URL":                 &c.DatabaseURL,
		"GENERATION_PROVIDER":          &g.Provider,
		"GENERATION_FALLBACK_PROVIDER": &g.FallbackProvider,
		"OLLAMA_URL":                   &g.OllamaURL,
		"OLLAMA_MODEL":                 &g.OllamaModel,
		"HUGGINGFACE_URL":              &g.HuggingFaceURL,
		"HUGGINGFACE_MODEL":            &g.HuggingFaceModel,
		"HUGGINGFACE_API_KEY":          &g.HuggingFaceAPIKey,
		"GEMINI_MODEL":                 &g.GeminiModel,
		"GEMINI_API_KEY":               &g.GeminiAPIKey,
		"GENERATION_TIMEOUT":           &g.Timeout,
	} {
		if v := getenv(env); v != "" {
			*dst = v
		}
	}
	return nil
}

// IsAdmin reports whether email is listed in AdminEmails (case-insensitive).
func (c *Config) IsAdmin(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// LLMConfig builds the generation client configuration. A Hugging Face fallback is
// only wired when its API key is present; otherwise fallback is disabled.
func (c *Config) LLMConfig() (*llm.Config, error) {
	g := c.Generation
	out := llm.DefaultConfig()

	if g.Timeout != "" {
		d, err := time.ParseDuration(g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid generation timeout %q: %w", g.Timeout, err)
		}
		out.Timeout = d
	}

	primary, ok := c.provider(llm.ProviderKind(g.Provider))
	if !ok {
		return nil, fmt.Errorf("generation provider %q is not usable", g.Provider)
	}
	out.Primary = primary

	fallbackKind := llm.ProviderKind(g.FallbackProvider)
	if fallbackKind == "" {
		fallbackKind = llm.ProviderHuggingFace
	}
	if fallbackKind != out.Primary.Kind {
		if fallback, ok := c.provider(fallbackKind); ok {
			out.Fallback = &fallback
		}
	}

	return out, nil
}

func (c *Config) provider(kind llm.ProviderKind) (llm.ProviderConfig, bool) {
	g := c.Generation
	switch kind {
	case "", llm.ProviderOllama:
		return llm.ProviderConfig{Kind: llm.ProviderOllama, BaseURL: g.OllamaURL, Model: g.OllamaModel}, true
	case llm.ProviderHuggingFace:
		if g.HuggingFaceAPIKey == "" {
			return llm.ProviderConfig{}, false
		}
		return llm.ProviderConfig{Kind: kind, BaseURL: g.HuggingFaceURL, Model: g.HuggingFaceModel, APIKey: g.HuggingFaceAPIKey}, true
	case llm.ProviderGemini:
		if g.GeminiAPIKey == "" {
			return llm.ProviderConfig{}, false
		}
		return llm.ProviderConfig{Kind: kind, Model: g.GeminiModel, APIKey: g.GeminiAPIKey}, true
	default:
		return llm.ProviderConfig{}, false
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
