package services

import (
	"strconv"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// NormalizeFlow maps a recovered object into the canonical ProcessFlow
// shape. Missing scalar fields become empty strings, missing sequences
// empty slices; malformed substructure degrades to defaults rather than
// failing.
//
// Document identity and the extraction model are stamped from the
// pipeline-supplied arguments into both the typed flow and the raw audit
// map, overwriting anything the model may have claimed. Model output must
// never spoof document identity.
func NormalizeFlow(obj map[string]any, documentName, documentPath, documentRelativePath, modelID string) *domain.ProcessFlow {
	obj["source_document"] = documentName
	obj["document_path"] = documentPath
	obj["document_relative_path"] = documentRelativePath
	obj["extraction_model"] = modelID

	return &domain.ProcessFlow{
		ProcessName:            stringField(obj, "process_name"),
		ProcessDescription:     stringField(obj, "process_description"),
		SourceDocument:         documentName,
		DocumentPath:           documentPath,
		DocumentRelativePath:   documentRelativePath,
		ExtractionModel:        modelID,
		Steps:                  stepsField(obj, "steps"),
		Roles:                  stringSliceField(obj, "roles"),
		ToolsSystems:           stringSliceField(obj, "tools_systems"),
		ComplianceRequirements: stringSliceField(obj, "compliance_requirements"),
		Raw:                    obj,
	}
}

// stepsField extracts and normalises the ordered step list.
func stepsField(obj map[string]any, key string) []domain.Step {
	raw, ok := obj[key].([]any)
	if !ok {
		return []domain.Step{}
	}

	steps := make([]domain.Step, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		steps = append(steps, domain.Step{
			StepNumber:      intField(m, "step_number"),
			StepName:        stringField(m, "step_name"),
			Description:     stringField(m, "description"),
			ResponsibleRole: stringField(m, "responsible_role"),
			Inputs:          stringSliceField(m, "inputs"),
			Outputs:         stringSliceField(m, "outputs"),
			DecisionPoints:  stringSliceField(m, "decision_points"),
			NextSteps:       intSliceField(m, "next_steps"),
		})
	}
	return steps
}

// stringField returns the string value for key, or "" when absent or not
// a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField returns the integer value for key, accepting JSON numbers and
// numeric strings, or 0 otherwise.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// stringSliceField returns the string sequence for key, skipping non-string
// elements, or an empty slice when absent.
func stringSliceField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// intSliceField returns the integer sequence for key. Values are kept
// verbatim - step number references are weak and never validated here.
func intSliceField(m map[string]any, key string) []int {
	raw, ok := m[key].([]any)
	if !ok {
		return []int{}
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case float64:
			out = append(out, int(v))
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}
