package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and change the configuration stored in config.toml.

API keys are never written to the config file. Set OPENAI_API_KEY,
ANTHROPIC_API_KEY or PROCFLOW_API_KEY in the environment (or a .env
file) instead.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it immediately.

Keys:
  provider            LLM provider: openai, anthropic, ollama or custom
  model               Model identifier
  base-url            Provider endpoint override
  temperature         Sampling temperature
  max-tokens          Response token limit
  timeout             Per-request timeout in seconds
  max-content-length  Document truncation limit in characters
  source-dir          Default document directory
  data-dir            Flow database directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()

	cmd.Println(headingStyle.Render("Configuration") + dimStyle.Render("  ("+configStore.Path()+")"))
	cmd.Println()

	cmd.Println("[extraction]")
	cmd.Printf("  provider:            %s\n", cfg.Extraction.Provider)
	cmd.Printf("  model:               %s\n", orDefault(cfg.Extraction.Model, "(provider default)"))
	if cfg.Extraction.BaseURL != "" {
		cmd.Printf("  base_url:            %s\n", cfg.Extraction.BaseURL)
	}
	cmd.Printf("  temperature:         %g\n", cfg.Extraction.Temperature)
	cmd.Printf("  max_tokens:          %d\n", cfg.Extraction.MaxTokens)
	if cfg.Extraction.TimeoutSeconds > 0 {
		cmd.Printf("  timeout_seconds:     %d\n", cfg.Extraction.TimeoutSeconds)
	}
	cmd.Printf("  max_content_length:  %d\n", cfg.Extraction.MaxContentLength)

	key := apiKeyFromEnv(domain.Provider(cfg.Extraction.Provider))
	if key != "" {
		cmd.Printf("  api key:             %s %s\n", maskAPIKey(key), dimStyle.Render("(from environment)"))
	} else if domain.Provider(cfg.Extraction.Provider) != domain.ProviderOllama {
		cmd.Printf("  api key:             %s\n", errorStyle.Render("(not set)"))
	}
	cmd.Println()

	cmd.Println("[source]")
	cmd.Printf("  dir:                 %s\n", orDefault(cfg.Source.Dir, "(not set)"))
	cmd.Println()

	cmd.Println("[storage]")
	cmd.Printf("  data_dir:            %s\n", orDefault(cfg.Storage.DataDir, "(default ~/.procflow/data)"))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	cfg := configStore.Config()

	switch key {
	case "provider":
		if !domain.Provider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		cfg.Extraction.Provider = value
	case "model":
		cfg.Extraction.Model = value
	case "base-url":
		cfg.Extraction.BaseURL = value
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t < 0 || t > 2 {
			return fmt.Errorf("%w: temperature must be between 0 and 2", domain.ErrInvalidInput)
		}
		cfg.Extraction.Temperature = t
	case "max-tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: max-tokens must be a non-negative integer", domain.ErrInvalidInput)
		}
		cfg.Extraction.MaxTokens = n
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: timeout must be seconds as a non-negative integer", domain.ErrInvalidInput)
		}
		cfg.Extraction.TimeoutSeconds = n
	case "max-content-length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: max-content-length must be a non-negative integer", domain.ErrInvalidInput)
		}
		cfg.Extraction.MaxContentLength = n
	case "source-dir":
		cfg.Source.Dir = value
		if err := configStore.SetSource(cfg.Source); err != nil {
			return err
		}
		cmd.Printf("source.dir set to %s\n", value)
		return nil
	case "data-dir":
		cfg.Storage.DataDir = value
		if err := configStore.SetStorage(cfg.Storage); err != nil {
			return err
		}
		cmd.Printf("storage.data_dir set to %s\n", value)
		return nil
	default:
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	if err := configStore.SetExtraction(cfg.Extraction); err != nil {
		return err
	}
	cmd.Printf("extraction.%s set to %s\n", key, value)
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
