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

// HuggingFaceGenerator calls the Hugging Face inference API with a bearer token.
type HuggingFaceGenerator struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewHuggingFaceGenerator creates a generator; apiKey must be non-empty.
func NewHuggingFaceGenerator(baseURL, model, apiKey string, client *http.Client) (*HuggingFaceGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("hugging face API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultHuggingFaceURL
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFaceGenerator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  client,
	}, nil
}

// Kind returns ProviderHuggingFace.
func (g *HuggingFaceGenerator) Kind() ProviderKind { return ProviderHuggingFace }

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	Temperature  float32 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
}

// Generate sends the prompt and returns the generated text. Responses whose shape is
// not the usual [{"generated_text": ...}] array are returned as their JSON text.
func (g *HuggingFaceGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(huggingFaceRequest{
		Inputs: req.Prompt,
		Parameters: huggingFaceParameters{
			Temperature:  req.Temperature,
			MaxNewTokens: req.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/"+g.model, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "send request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{
			Provider:   ProviderHuggingFace,
			StatusCode: resp.StatusCode,
			Message:    truncate(respBody, 300),
		}
	}

	var data any
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "decode response", Cause: err}
	}

	if text, ok := generatedText(data); ok {
		return text, nil
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "re-encode response", Cause: err}
	}
	return string(blob), nil
}

// generatedText extracts data[0].generated_text when present and non-empty.
func generatedText(data any) (string, bool) {
	items, ok := data.([]any)
	if !ok || len(items) == 0 {
		return "", false
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := first["generated_text"].(string)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}
