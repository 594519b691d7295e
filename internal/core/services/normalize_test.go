package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlow(t *testing.T) {
	t.Run("full object maps to typed flow", func(t *testing.T) {
		obj := map[string]any{
			"process_name":        "Employee Onboarding",
			"process_description": "From offer acceptance to first day",
			"steps": []any{
				map[string]any{
					"step_number":      float64(1),
					"step_name":        "Send contract",
					"description":      "HR emails the signed offer",
					"responsible_role": "HR Specialist",
					"inputs":           []any{"signed offer"},
					"outputs":          []any{"contract"},
					"decision_points":  []any{"candidate accepts?"},
					"next_steps":       []any{float64(2)},
				},
			},
			"roles":                   []any{"HR Specialist", "Manager"},
			"tools_systems":           []any{"Workday"},
			"compliance_requirements": []any{"GDPR"},
		}

		flow := NormalizeFlow(obj, "onboarding.md", "/docs/onboarding.md", "onboarding.md", "gpt-4o")

		assert.Equal(t, "Employee Onboarding", flow.ProcessName)
		assert.Equal(t, "From offer acceptance to first day", flow.ProcessDescription)
		require.Len(t, flow.Steps, 1)
		step := flow.Steps[0]
		assert.Equal(t, 1, step.StepNumber)
		assert.Equal(t, "Send contract", step.StepName)
		assert.Equal(t, "HR Specialist", step.ResponsibleRole)
		assert.Equal(t, []string{"signed offer"}, step.Inputs)
		assert.Equal(t, []int{2}, step.NextSteps)
		assert.Equal(t, []string{"HR Specialist", "Manager"}, flow.Roles)
		assert.Equal(t, []string{"Workday"}, flow.ToolsSystems)
		assert.Equal(t, []string{"GDPR"}, flow.ComplianceRequirements)
	})

	t.Run("missing fields become defaults", func(t *testing.T) {
		flow := NormalizeFlow(map[string]any{}, "empty.txt", "/docs/empty.txt", "empty.txt", "llama3")

		assert.Empty(t, flow.ProcessName)
		assert.Empty(t, flow.ProcessDescription)
		assert.NotNil(t, flow.Steps)
		assert.Empty(t, flow.Steps)
		assert.NotNil(t, flow.Roles)
		assert.Empty(t, flow.Roles)
		assert.Empty(t, flow.ToolsSystems)
		assert.Empty(t, flow.ComplianceRequirements)
	})

	t.Run("identity fields overwrite model claims", func(t *testing.T) {
		obj := map[string]any{
			"process_name":     "Spoofed",
			"source_document":  "model-invented.md",
			"extraction_model": "model-invented",
		}

		flow := NormalizeFlow(obj, "real.md", "/docs/real.md", "real.md", "claude-sonnet")

		assert.Equal(t, "real.md", flow.SourceDocument)
		assert.Equal(t, "claude-sonnet", flow.ExtractionModel)
		// The raw audit map carries the same stamped identity.
		assert.Equal(t, "real.md", flow.Raw["source_document"])
		assert.Equal(t, "/docs/real.md", flow.Raw["document_path"])
		assert.Equal(t, "real.md", flow.Raw["document_relative_path"])
		assert.Equal(t, "claude-sonnet", flow.Raw["extraction_model"])
	})

	t.Run("malformed substructure degrades instead of failing", func(t *testing.T) {
		obj := map[string]any{
			"process_name": float64(42),
			"steps": []any{
				"not a step object",
				map[string]any{
					"step_number": "3",
					"step_name":   "Survivor",
					"inputs":      "not a list",
					"next_steps":  []any{"4", float64(5), true},
				},
			},
			"roles": "not a list",
		}

		flow := NormalizeFlow(obj, "odd.md", "/docs/odd.md", "odd.md", "mistral")

		assert.Empty(t, flow.ProcessName)
		require.Len(t, flow.Steps, 1)
		assert.Equal(t, 3, flow.Steps[0].StepNumber)
		assert.Equal(t, "Survivor", flow.Steps[0].StepName)
		assert.Empty(t, flow.Steps[0].Inputs)
		assert.Equal(t, []int{4, 5}, flow.Steps[0].NextSteps)
		assert.Empty(t, flow.Roles)
	})

	t.Run("dangling next step references are preserved", func(t *testing.T) {
		obj := map[string]any{
			"steps": []any{
				map[string]any{"step_number": float64(1), "next_steps": []any{float64(99)}},
			},
		}

		flow := NormalizeFlow(obj, "dangling.md", "/docs/dangling.md", "dangling.md", "gpt-4o")

		require.Len(t, flow.Steps, 1)
		assert.Equal(t, []int{99}, flow.Steps[0].NextSteps)
	})
}
