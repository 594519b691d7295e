// Package cli implements the procflow command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/config/file"
	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/storage/sqlite"
	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// configStore is initialised before any command runs.
var configStore *file.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "procflow",
	Short: "Extract structured process flows from documents with LLMs",
	Long: `procflow reads process documentation (SOPs, runbooks, procedure
manuals) and uses an LLM to extract structured process flows: steps,
roles, tools and compliance requirements. Extracted flows are stored in
a local SQLite database for querying.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		configStore = store
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.procflow)")
}

// Execute runs the CLI. Environment variables from a local .env file are
// loaded first so credentials can live next to the project instead of the
// shell profile.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openFlowStore opens the SQLite flow store at the configured location.
func openFlowStore() (*sqlite.Store, error) {
	dataDir := configStore.Config().Storage.DataDir
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening flow database: %w", err)
	}
	return store, nil
}

// apiKeyFromEnv resolves the credential for a provider from the
// environment. Keys are never stored in the config file.
func apiKeyFromEnv(provider domain.Provider) string {
	switch provider {
	case domain.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case domain.ProviderCustom:
		return os.Getenv("PROCFLOW_API_KEY")
	default:
		return ""
	}
}
