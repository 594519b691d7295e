package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/ai"
	"github.com/procflow-labs/procflow-cli/internal/connectors/filesystem"
	"github.com/procflow-labs/procflow-cli/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and extract flows as documents change",
	Long: `Watches the directory and runs the extraction pipeline on every
supported document that is created or modified. Runs until interrupted.

The directory argument falls back to source.dir from the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&extractProvider, "provider", "p", "", "LLM provider: openai, anthropic, ollama or custom")
	watchCmd.Flags().StringVarP(&extractModel, "model", "m", "", "Model identifier")
	watchCmd.Flags().IntVar(&extractRPM, "rpm", 0, "Throttle requests per minute (0 = unthrottled)")
	watchCmd.Flags().StringVar(&extractPromptFile, "prompt-file", "", "Use this template file instead of the prompts directory")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := sourceDir(args)
	if err != nil {
		return err
	}

	connector, err := filesystem.New(dir)
	if err != nil {
		return err
	}

	settings := resolveSettings()
	client, err := ai.CreateAndValidateLLMClient(settings)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := openFlowStore()
	if err != nil {
		return err
	}
	defer store.Close()

	prompts, err := promptStore()
	if err != nil {
		return err
	}

	svc := services.NewExtractionService(client, store, prompts, newLimiter(), settings.MaxContentLength)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", connector.Root(), err)
	}

	cmd.Printf("Watching %s with %s (%s), Ctrl-C to stop...\n",
		connector.Root(), client.ModelName(), settings.Provider)

	for doc := range events {
		flow, err := svc.ExtractDocument(ctx, doc)
		if err != nil {
			if errors.Is(err, ctx.Err()) {
				break
			}
			cmd.Println(errorStyle.Render(fmt.Sprintf("  %s: %v", doc.Name, err)))
			continue
		}
		cmd.Println(successStyle.Render(fmt.Sprintf("  %s -> flow %d (%q, %d steps)",
			doc.Name, flow.ID, flow.ProcessName, len(flow.Steps))))
	}

	cmd.Println("Stopped.")
	return nil
}
