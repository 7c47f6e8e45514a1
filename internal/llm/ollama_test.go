package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerator_Generate(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"{\"phase_1\":{}}","done":true}`))
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL+"/", "llama3.2", server.Client())
	text, err := g.Generate(context.Background(), Request{Prompt: "hi", Temperature: 0.7, MaxTokens: 3000})
	require.NoError(t, err)

	assert.Equal(t, `{"phase_1":{}}`, text)
	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "hi", got.Prompt)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.7, got.Options.Temperature, 0.0001)
	assert.Equal(t, 3000, got.Options.NumPredict)
}

func TestOllamaGenerator_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL, "missing", server.Client())
	_, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProviderOllama, perr.Provider)
	assert.Equal(t, http.StatusNotFound, perr.StatusCode)
	assert.Contains(t, perr.Message, "model not found")
}

func TestOllamaGenerator_ErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL, "", server.Client())
	_, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestOllamaGenerator_Defaults(t *testing.T) {
	g := NewOllamaGenerator("", "", nil)
	assert.Equal(t, DefaultOllamaURL, g.baseURL)
	assert.Equal(t, DefaultOllamaModel, g.model)
	assert.Equal(t, ProviderOllama, g.Kind())
}
