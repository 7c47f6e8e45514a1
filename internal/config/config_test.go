package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-mentor/internal/llm"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_JSON(t *testing.T) {
	content := `{
		"port": 9090,
		"admin_emails": ["admin@example.com"],
		"generation": {"ollama_model": "mistral", "timeout": "30s"}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"admin@example.com"}, cfg.AdminEmails)
	assert.Equal(t, "mistral", cfg.Generation.OllamaModel)
	assert.Equal(t, "30s", cfg.Generation.Timeout)
}

func TestLoadConfig_YAML(t *testing.T) {
	content := `
port: 7070
allowed_origins:
  - https://app.example.com
generation:
  provider: gemini
  gemini_api_key: key
  fallback_provider: huggingface
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")

	_, err = LoadConfig("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ invalid json }`), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "failed to parse config JSON")

	badYAML := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(badYAML, []byte("port: [1"), 0o644))
	_, err = LoadConfig(badYAML)
	assert.ErrorContains(t, err, "failed to parse config YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Default()},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "unknown provider", cfg: Config{Generation: GenerationConfig{Provider: "openai"}}, wantErr: "unsupported generation provider"},
		{name: "gemini without key", cfg: Config{Generation: GenerationConfig{Provider: "gemini"}}, wantErr: "GEMINI_API_KEY"},
		{name: "ollama as fallback", cfg: Config{Generation: GenerationConfig{FallbackProvider: "ollama"}}, wantErr: "unsupported fallback provider"},
		{name: "bad timeout", cfg: Config{Generation: GenerationConfig{Timeout: "soon"}}, wantErr: "invalid generation timeout"},
		{name: "negative timeout", cfg: Config{Generation: GenerationConfig{Timeout: "-1s"}}, wantErr: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Port:       9000,
		Generation: GenerationConfig{OllamaModel: "custom"},
	}

	merged := partial.MergeWithDefaults(Default())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "custom", merged.Generation.OllamaModel)
	assert.Equal(t, llm.DefaultOllamaURL, merged.Generation.OllamaURL)
	assert.Equal(t, "2m0s", merged.Generation.Timeout)
	assert.Equal(t, []string{"http://localhost:3000"}, merged.AllowedOrigins)
	assert.Empty(t, partial.Generation.OllamaURL, "receiver must not be modified")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":                "3001",
		"ADMIN_EMAILS":        "a@example.com, B@example.com ,",
		"OLLAMA_URL":          "http://ollama:11434",
		"HUGGINGFACE_API_KEY": "hf_key",
		"DATABASE_URL":        "postgres://localhost/db",
		"GENERATION_TIMEOUT":  "45s",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, []string{"a@example.com", "B@example.com"}, cfg.AdminEmails)
	assert.Equal(t, "http://ollama:11434", cfg.Generation.OllamaURL)
	assert.Equal(t, "hf_key", cfg.Generation.HuggingFaceAPIKey)
	assert.Equal(t, "postgres://localhost/db", cfg.DatabaseURL)
	assert.True(t, cfg.IsAdmin("b@example.com"))
	assert.False(t, cfg.IsAdmin("c@example.com"))

	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"PORT": "abc"})))
}

func TestLLMConfig(t *testing.T) {
	t.Run("no huggingface key disables fallback", func(t *testing.T) {
		cfg := Default()
		out, err := cfg.LLMConfig()
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderOllama, out.Primary.Kind)
		assert.False(t, out.HasFallback())
		assert.Equal(t, 2*time.Minute, out.Timeout)
	})

	t.Run("huggingface key enables fallback", func(t *testing.T) {
		cfg := Default()
		cfg.Generation.HuggingFaceAPIKey = "hf_key"
		out, err := cfg.LLMConfig()
		require.NoError(t, err)
		require.True(t, out.HasFallback())
		assert.Equal(t, llm.ProviderHuggingFace, out.Fallback.Kind)
		assert.Equal(t, "hf_key", out.Fallback.APIKey)
		assert.Equal(t, llm.DefaultHuggingFaceModel, out.Fallback.Model)
	})

	t.Run("gemini primary with ollama untouched", func(t *testing.T) {
		cfg := Default()
		cfg.Generation.Provider = "gemini"
		cfg.Generation.GeminiAPIKey = "g_key"
		cfg.Generation.FallbackProvider = "gemini"
		out, err := cfg.LLMConfig()
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderGemini, out.Primary.Kind)
		assert.False(t, out.HasFallback(), "fallback equal to primary is ignored")
	})

	t.Run("unusable primary", func(t *testing.T) {
		cfg := Default()
		cfg.Generation.Provider = "gemini"
		_, err := cfg.LLMConfig()
		assert.Error(t, err)
	})
}
