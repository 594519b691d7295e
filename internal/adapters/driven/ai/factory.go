// Package ai provides factory functions for creating LLM client adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/procflow-labs/procflow-cli/internal/adapters/driven/llm/anthropic"
	customllm "github.com/procflow-labs/procflow-cli/internal/adapters/driven/llm/custom"
	ollamallm "github.com/procflow-labs/procflow-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/procflow-labs/procflow-cli/internal/adapters/driven/llm/openai"
	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for backend connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMClient creates the appropriate LLM client based on settings.
func CreateLLMClient(settings *domain.ExtractionSettings) (driven.LLMClient, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider and model must be set", domain.ErrConfiguration)
	}

	switch settings.Provider {
	case domain.ProviderOllama:
		return ollamallm.NewClient(ollamallm.Config{
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
			Timeout:     settings.Timeout,
		}), nil

	case domain.ProviderOpenAI:
		return openaillm.NewClient(openaillm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
			Timeout:     settings.Timeout,
		})

	case domain.ProviderAnthropic:
		return anthropicllm.NewClient(anthropicllm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
			Timeout:     settings.Timeout,
		})

	case domain.ProviderCustom:
		return customllm.NewClient(customllm.Config{
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			APIKey:      settings.APIKey,
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
			Timeout:     settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported provider: %s", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateAndValidateLLMClient creates an LLM client and validates
// connectivity with a short ping before committing to a run.
func CreateAndValidateLLMClient(settings *domain.ExtractionSettings) (driven.LLMClient, error) {
	client, err := CreateLLMClient(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s backend unreachable: %w", settings.Provider, err)
	}

	return client, nil
}
