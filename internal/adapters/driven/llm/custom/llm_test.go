package custom

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

func TestNewClient(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := NewClient(Config{Model: "m"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("requires model", func(t *testing.T) {
		_, err := NewClient(Config{BaseURL: "http://llm.internal/v1/chat"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("API key is optional", func(t *testing.T) {
		client, err := NewClient(Config{BaseURL: "http://llm.internal/v1/chat", Model: "m"})
		require.NoError(t, err)
		assert.Equal(t, "m", client.ModelName())
	})
}

func TestComplete(t *testing.T) {
	serve := func(body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(body))
		}))
	}

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "openai choices shape",
			body: `{"choices": [{"message": {"content": "from choices"}}]}`,
			want: "from choices",
		},
		{
			name: "legacy completion text shape",
			body: `{"choices": [{"text": "from text"}]}`,
			want: "from text",
		},
		{
			name: "anthropic content blocks shape",
			body: `{"content": [{"type": "text", "text": "from "}, {"type": "text", "text": "blocks"}]}`,
			want: "from blocks",
		},
		{
			name: "ollama response shape",
			body: `{"response": "from response"}`,
			want: "from response",
		},
		{
			name: "bare content string",
			body: `{"content": "from content"}`,
			want: "from content",
		},
		{
			name: "bare text string",
			body: `{"text": "from text field"}`,
			want: "from text field",
		},
		{
			name: "message content shape",
			body: `{"message": {"role": "assistant", "content": "from message"}}`,
			want: "from message",
		},
		{
			name: "string message shape",
			body: `{"message": "from string message"}`,
			want: "from string message",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := serve(tc.body)
			defer server.Close()

			client, err := NewClient(Config{BaseURL: server.URL, Model: "m"})
			require.NoError(t, err)

			text, err := client.Complete(context.Background(), "extract this")
			require.NoError(t, err)
			assert.Equal(t, tc.want, text)
		})
	}

	t.Run("content-less message object is stringified", func(t *testing.T) {
		server := serve(`{"message": {"process_name": "Inside Message", "steps": []}}`)
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL, Model: "m"})
		require.NoError(t, err)

		text, err := client.Complete(context.Background(), "extract this")
		require.NoError(t, err)

		var obj map[string]any
		require.NoError(t, json.Unmarshal([]byte(text), &obj))
		assert.Equal(t, "Inside Message", obj["process_name"])
		assert.NotContains(t, text, `"message"`)
	})

	t.Run("unrecognised shape falls back to whole payload", func(t *testing.T) {
		server := serve(`{"process_name": "Already Unwrapped", "steps": []}`)
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL, Model: "m"})
		require.NoError(t, err)

		text, err := client.Complete(context.Background(), "extract this")
		require.NoError(t, err)

		var obj map[string]any
		require.NoError(t, json.Unmarshal([]byte(text), &obj))
		assert.Equal(t, "Already Unwrapped", obj["process_name"])
	})

	t.Run("non-JSON body wraps provider protocol", func(t *testing.T) {
		server := serve("plain text error page")
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL, Model: "m"})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "extract this")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProviderProtocol)
	})

	t.Run("bearer token is sent when configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Write([]byte(`{"response": "ok"}`))
		}))
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL, Model: "m", APIKey: "secret"})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "extract this")
		require.NoError(t, err)
	})

	t.Run("error status wraps transport", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL, Model: "m"})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "extract this")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransport)
	})
}
