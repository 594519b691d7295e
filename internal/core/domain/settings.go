package domain

import "time"

const unknownDescription = "Unknown"

// Provider identifies an LLM backend for process flow extraction.
type Provider string

// Available providers.
const (
	// ProviderOpenAI is the OpenAI chat-completions API.
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic is the Anthropic messages API.
	ProviderAnthropic Provider = "anthropic"

	// ProviderOllama is a local Ollama daemon.
	ProviderOllama Provider = "ollama"

	// ProviderCustom is any OpenAI-compatible REST endpoint.
	ProviderCustom Provider = "custom"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderCustom:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs a credential.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderAnthropic || p == ProviderCustom
}

// RequiresBaseURL returns true if this provider has no default endpoint.
func (p Provider) RequiresBaseURL() bool {
	return p == ProviderCustom
}

// IsLocal returns true if this provider runs locally.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	case ProviderAnthropic:
		return "Anthropic (cloud)"
	case ProviderOllama:
		return "Ollama (local)"
	case ProviderCustom:
		return "Custom OpenAI-compatible endpoint"
	default:
		return unknownDescription
	}
}

// Extraction defaults. Content beyond MaxContentLength characters is
// truncated before prompting, matching typical model context limits.
const (
	DefaultMaxContentLength = 20000
	DefaultTemperature      = 0.1
	DefaultMaxTokens        = 2000
)

// ExtractionSettings holds provider configuration for an extraction run.
// The API key is passed explicitly by the caller (read from the
// environment at the edge), never read ambiently by the core.
type ExtractionSettings struct {
	// Provider selects the LLM backend.
	Provider Provider

	// Model is the model identifier to extract with.
	Model string

	// APIKey is the provider credential, where required.
	APIKey string

	// BaseURL overrides the provider endpoint. Required for custom.
	BaseURL string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens bounds the model response length.
	MaxTokens int

	// Timeout bounds each provider call. Zero means the adapter default.
	Timeout time.Duration

	// MaxContentLength bounds document content included in the prompt.
	// Zero means DefaultMaxContentLength.
	MaxContentLength int
}

// IsConfigured returns true if the settings name a provider and model.
func (s *ExtractionSettings) IsConfigured() bool {
	return s != nil && s.Provider != "" && s.Model != ""
}
