package domain

import "time"

// ProcessFlow is one normalised extraction result: a procedure pulled out
// of a single source document, with ordered steps and unordered supporting
// collections.
type ProcessFlow struct {
	// ID is assigned by the store on save. Zero until persisted.
	ID int64

	// ProcessName is the extracted name of the procedure.
	ProcessName string

	// ProcessDescription is the extracted summary of the procedure.
	ProcessDescription string

	// SourceDocument is the name of the document the flow came from.
	// Always set by the pipeline, never trusted from model output.
	SourceDocument string

	// DocumentPath is the absolute path of the source document.
	DocumentPath string

	// DocumentRelativePath is the path relative to the scanned root.
	DocumentRelativePath string

	// ExtractionModel is the model identifier used for extraction.
	// Always set by the pipeline, never trusted from model output.
	ExtractionModel string

	// Steps holds the ordered actions, in extraction order.
	Steps []Step

	// Roles are the responsible roles mentioned across the procedure.
	Roles []string

	// ToolsSystems are the tools and systems the procedure relies on.
	ToolsSystems []string

	// ComplianceRequirements are regulatory or policy requirements.
	ComplianceRequirements []string

	// Raw is the full recovered object, kept verbatim alongside the
	// normalised fields so normalisation lossiness can be audited and
	// the flow reprocessed.
	Raw map[string]any

	// CreatedAt is when the flow was persisted.
	CreatedAt time.Time
}

// Step is one ordered action within a ProcessFlow. Steps are owned
// exclusively by their flow and have no independent lifecycle.
type Step struct {
	// StepNumber is the model-assigned ordinal of the step.
	StepNumber int

	// StepName is the short name of the action.
	StepName string

	// Description is the full description of the action.
	Description string

	// ResponsibleRole is the role that performs the step.
	ResponsibleRole string

	// Inputs are the artefacts the step consumes, in extraction order.
	Inputs []string

	// Outputs are the artefacts the step produces, in extraction order.
	Outputs []string

	// DecisionPoints are branch conditions within the step.
	DecisionPoints []string

	// NextSteps references follow-up steps by step number. These are weak
	// references: a number with no matching step is preserved verbatim,
	// never validated.
	NextSteps []int
}

// FlowSummary is a lightweight listing row for stored flows.
type FlowSummary struct {
	ID                 int64
	ProcessName        string
	ProcessDescription string
	SourceDocument     string
	ExtractionModel    string
	StepCount          int
	CreatedAt          time.Time
}
