package driven

import "context"

// LLMClient sends a prompt to a language model backend and returns the raw
// response text. Implementations are configured at construction with the
// model identifier, temperature, token limit, timeout and (where required)
// a credential, so the pipeline only ever supplies the prompt.
//
// Implementations include:
//   - OpenAI (chat-completions format)
//   - Anthropic (messages format)
//   - Ollama (local generate format)
//   - Custom (any OpenAI-compatible REST endpoint)
type LLMClient interface {
	// Complete sends the prompt and returns the raw response text.
	// The text is not guaranteed to be valid JSON; structural recovery
	// happens downstream. Transport failures, non-success statuses and
	// timeouts wrap domain.ErrTransport.
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelName returns the model identifier being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight request.
	// Used as a preflight before committing to a batch.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
