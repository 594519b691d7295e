package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/services"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Manage extracted process flows",
	Long:  `List, inspect, or delete process flows stored in the flow database.`,
}

var flowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored flows, newest first",
	Args:  cobra.NoArgs,
	RunE:  runFlowList,
}

var flowShowCmd = &cobra.Command{
	Use:   "show [flow-id]",
	Short: "Show one flow with all steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlowShow,
}

var flowDeleteCmd = &cobra.Command{
	Use:   "delete [flow-id]",
	Short: "Delete a flow and its children",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlowDelete,
}

func init() {
	flowCmd.AddCommand(flowListCmd)
	flowCmd.AddCommand(flowShowCmd)
	flowCmd.AddCommand(flowDeleteCmd)
	rootCmd.AddCommand(flowCmd)
}

func parseFlowID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a flow id", domain.ErrInvalidInput, arg)
	}
	return id, nil
}

func runFlowList(cmd *cobra.Command, _ []string) error {
	store, err := openFlowStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := services.NewFlowService(store).List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing flows: %w", err)
	}

	if len(summaries) == 0 {
		cmd.Println("No flows stored yet. Run 'procflow extract' first.")
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("%-6s %-30s %-24s %-6s %s",
		"ID", "PROCESS", "SOURCE", "STEPS", "EXTRACTED")))
	for _, s := range summaries {
		cmd.Printf("%-6d %-30s %-24s %-6d %s\n",
			s.ID, truncate(s.ProcessName, 30), truncate(s.SourceDocument, 24),
			s.StepCount, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	cmd.Printf("\nTotal: %d flow(s)\n", len(summaries))
	return nil
}

func runFlowShow(cmd *cobra.Command, args []string) error {
	id, err := parseFlowID(args[0])
	if err != nil {
		return err
	}

	store, err := openFlowStore()
	if err != nil {
		return err
	}
	defer store.Close()

	flow, err := services.NewFlowService(store).Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("loading flow %d: %w", id, err)
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Flow %d: %s", flow.ID, flow.ProcessName)))
	if flow.ProcessDescription != "" {
		cmd.Printf("  %s\n", flow.ProcessDescription)
	}
	cmd.Println()
	cmd.Printf("  Source:    %s\n", flow.SourceDocument)
	cmd.Printf("  Model:     %s\n", flow.ExtractionModel)
	cmd.Printf("  Extracted: %s\n", flow.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(flow.Steps) > 0 {
		cmd.Println("\n" + headingStyle.Render("  Steps:"))
		for _, step := range flow.Steps {
			cmd.Printf("    %d. %s", step.StepNumber, step.StepName)
			if step.ResponsibleRole != "" {
				cmd.Printf(" %s", dimStyle.Render("["+step.ResponsibleRole+"]"))
			}
			cmd.Println()
			if step.Description != "" {
				cmd.Printf("       %s\n", step.Description)
			}
			if len(step.DecisionPoints) > 0 {
				cmd.Printf("       %s %s\n", dimStyle.Render("decisions:"), strings.Join(step.DecisionPoints, "; "))
			}
			if len(step.NextSteps) > 0 {
				cmd.Printf("       %s %s\n", dimStyle.Render("next:"), joinInts(step.NextSteps))
			}
		}
	}

	printList(cmd, "Roles", flow.Roles)
	printList(cmd, "Tools & systems", flow.ToolsSystems)
	printList(cmd, "Compliance", flow.ComplianceRequirements)
	return nil
}

func runFlowDelete(cmd *cobra.Command, args []string) error {
	id, err := parseFlowID(args[0])
	if err != nil {
		return err
	}

	store, err := openFlowStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := services.NewFlowService(store).Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting flow %d: %w", id, err)
	}

	cmd.Printf("Flow %d deleted.\n", id)
	return nil
}

func printList(cmd *cobra.Command, label string, values []string) {
	if len(values) == 0 {
		return
	}
	cmd.Println("\n" + headingStyle.Render("  "+label+":"))
	for _, v := range values {
		cmd.Printf("    - %s\n", v)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
