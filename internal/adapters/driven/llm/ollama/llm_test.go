package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

func TestComplete(t *testing.T) {
	t.Run("returns response field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/generate", r.URL.Path)

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3.2", req.Model)
			assert.Equal(t, "json", req.Format)
			assert.False(t, req.Stream)

			w.Write([]byte(`{"response": "{\"process_name\": \"Local\"}", "done": true}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})

		text, err := client.Complete(context.Background(), "extract this")
		require.NoError(t, err)
		assert.Equal(t, `{"process_name": "Local"}`, text)
	})

	t.Run("model error wraps transport", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "model 'missing' not found"}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Model: "missing"})

		_, err := client.Complete(context.Background(), "extract this")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("unreachable server wraps transport", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

		_, err := client.Complete(context.Background(), "extract this")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	assert.NoError(t, client.Ping(context.Background()))
}
