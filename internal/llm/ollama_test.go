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

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1:8b", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "hello")

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: "hi there",
			Done:     true,
		})
	}))
	defer srv.Close()

	c := newOllamaCompleter(Config{Provider: "ollama", BaseURL: srv.URL})

	got, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)
}

func TestOllamaCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newOllamaCompleter(Config{Provider: "ollama", BaseURL: srv.URL})

	_, err := c.Complete(context.Background(), "hello")
	require.Error(t, err)

	var ae *apiError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.StatusCode)
	assert.False(t, isRetryableError(err))
}

func TestOllamaCompleteUnreachable(t *testing.T) {
	c := newOllamaCompleter(Config{Provider: "ollama", BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1})

	_, err := c.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
