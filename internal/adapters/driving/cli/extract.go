package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/ai"
	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/config/file"
	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/storage/memory"
	"github.com/procflow-labs/procflow-cli/internal/connectors/filesystem"
	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driving"
	"github.com/procflow-labs/procflow-cli/internal/core/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract [directory]",
	Short: "Extract process flows from documents in a directory",
	Long: `Reads every supported document (.txt, .text, .md, .markdown) under the
directory, sends each to the configured LLM, and stores the extracted
process flows. One document failing never aborts the rest of the batch.

The directory argument falls back to source.dir from the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// extract flags.
var (
	extractProvider    string
	extractModel       string
	extractBaseURL     string
	extractTemperature float64
	extractMaxTokens   int
	extractTimeout     time.Duration
	extractRPM         int
	extractDryRun      bool
	extractPromptFile  string
)

func init() {
	extractCmd.Flags().StringVarP(&extractProvider, "provider", "p", "", "LLM provider: openai, anthropic, ollama or custom")
	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "", "Model identifier")
	extractCmd.Flags().StringVar(&extractBaseURL, "base-url", "", "Override the provider endpoint")
	extractCmd.Flags().Float64Var(&extractTemperature, "temperature", -1, "Sampling temperature")
	extractCmd.Flags().IntVar(&extractMaxTokens, "max-tokens", 0, "Response token limit")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 0, "Per-request timeout")
	extractCmd.Flags().IntVar(&extractRPM, "rpm", 0, "Throttle requests per minute (0 = unthrottled)")
	extractCmd.Flags().BoolVar(&extractDryRun, "dry-run", false, "Extract without writing to the flow database")
	extractCmd.Flags().StringVar(&extractPromptFile, "prompt-file", "", "Use this template file instead of the prompts directory")

	rootCmd.AddCommand(extractCmd)
}

// resolveSettings merges config file values with command line overrides
// and the credential from the environment.
func resolveSettings() *domain.ExtractionSettings {
	settings := configStore.ExtractionSettings("")
	if extractProvider != "" {
		settings.Provider = domain.Provider(extractProvider)
	}
	// The key lookup depends on the effective provider.
	settings.APIKey = apiKeyFromEnv(settings.Provider)
	applySettingOverrides(settings)
	return settings
}

func applySettingOverrides(settings *domain.ExtractionSettings) {
	if extractModel != "" {
		settings.Model = extractModel
	}
	if extractBaseURL != "" {
		settings.BaseURL = extractBaseURL
	}
	if extractTemperature >= 0 {
		settings.Temperature = extractTemperature
	}
	if extractMaxTokens > 0 {
		settings.MaxTokens = extractMaxTokens
	}
	if extractTimeout > 0 {
		settings.Timeout = extractTimeout
	}
}

// sourceDir resolves the document directory from the argument or config.
func sourceDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if dir := configStore.Config().Source.Dir; dir != "" {
		return dir, nil
	}
	return "", fmt.Errorf("%w: no directory given and source.dir is not configured", domain.ErrConfiguration)
}

// newLimiter builds the request throttle from the rpm flag.
func newLimiter() *rate.Limiter {
	if extractRPM <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(extractRPM)/60.0), 1)
}

func runExtract(cmd *cobra.Command, args []string) error {
	dir, err := sourceDir(args)
	if err != nil {
		return err
	}

	connector, err := filesystem.New(dir)
	if err != nil {
		return err
	}

	docs, err := connector.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Printf("No supported documents found under %s\n", connector.Root())
		return nil
	}

	settings := resolveSettings()
	client, err := ai.CreateAndValidateLLMClient(settings)
	if err != nil {
		return err
	}
	defer client.Close()

	var flows driven.FlowStore
	if extractDryRun {
		flows = memory.NewFlowStore()
	} else {
		store, err := openFlowStore()
		if err != nil {
			return err
		}
		defer store.Close()
		flows = store
	}

	prompts, err := promptStore()
	if err != nil {
		return err
	}

	svc := services.NewExtractionService(client, flows, prompts, newLimiter(), settings.MaxContentLength)

	cmd.Printf("Extracting %d document(s) with %s (%s)...\n\n",
		len(docs), client.ModelName(), settings.Provider)

	result := svc.ExtractBatch(cmd.Context(), docs)
	renderBatchResult(cmd, result, extractDryRun)

	if len(result.FlowIDs) == 0 && len(result.Failures) > 0 {
		return fmt.Errorf("all %d document(s) failed", len(result.Failures))
	}
	return nil
}

// promptStore resolves the prompt source: an explicit template file when
// --prompt-file is set, the prompts directory otherwise.
func promptStore() (driven.PromptStore, error) {
	if extractPromptFile != "" {
		return file.NewSinglePromptStore(extractPromptFile)
	}
	if configDir == "" {
		// PromptStore falls back to ~/.procflow/prompts
		return file.NewPromptStore("")
	}
	return file.NewPromptStore(filepath.Join(configDir, "prompts"))
}

// renderBatchResult prints the run summary.
func renderBatchResult(cmd *cobra.Command, result driving.BatchResult, dryRun bool) {
	cmd.Println(headingStyle.Render("Extraction run " + result.RunID))

	if len(result.FlowIDs) > 0 {
		verb := "stored"
		if dryRun {
			verb = "extracted (dry run, not stored)"
		}
		cmd.Println(successStyle.Render(fmt.Sprintf("  %d flow(s) %s", len(result.FlowIDs), verb)))
		for _, id := range result.FlowIDs {
			cmd.Println(dimStyle.Render(fmt.Sprintf("    flow %d", id)))
		}
	}

	for _, failure := range result.Failures {
		cmd.Println(errorStyle.Render(fmt.Sprintf("  %s failed at %s stage: %v",
			failure.Document, failure.Stage, failure.Err)))
	}

	if len(result.Failures) == 0 && len(result.FlowIDs) == 0 {
		cmd.Println(dimStyle.Render("  nothing to do"))
	}
}
