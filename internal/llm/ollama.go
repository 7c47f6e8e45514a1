package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaGenerator calls an Ollama-compatible /api/generate endpoint.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaGenerator creates a generator for the given base URL and model.
func NewOllamaGenerator(baseURL, model string, client *http.Client) *OllamaGenerator {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OllamaGenerator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

// Kind returns ProviderOllama.
func (g *OllamaGenerator) Kind() ProviderKind { return ProviderOllama }

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends the prompt and returns the raw response text.
func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  g.model,
		Prompt: req.Prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Message: "create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Message: "send request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Message: "read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{
			Provider:   ProviderOllama,
			StatusCode: resp.StatusCode,
			Message:    truncate(respBody, 300),
		}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Message: "decode response", Cause: err}
	}
	if parsed.Error != "" {
		return "", &ProviderError{Provider: ProviderOllama, Message: parsed.Error}
	}

	return parsed.Response, nil
}
