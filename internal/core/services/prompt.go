package services

import (
	"fmt"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/logger"
)

// DefaultExtractionPrompt is the embedded fallback template used when no
// PromptStore is configured. It instructs the model to answer with a single
// JSON object in the canonical process flow shape.
const DefaultExtractionPrompt = `You are an expert at analysing Standard Operating Procedures (SOPs) and extracting structured process flow information.

Analyse the document below and return ONLY a single JSON object with this structure, no prose before or after:

{
  "process_name": "Name of the process",
  "process_description": "Brief description of what the process accomplishes",
  "steps": [
    {
      "step_number": 1,
      "step_name": "Short step name",
      "description": "What happens in this step",
      "responsible_role": "Role that performs the step",
      "inputs": ["required inputs"],
      "outputs": ["produced outputs"],
      "decision_points": ["branch conditions, if any"],
      "next_steps": [2]
    }
  ],
  "roles": ["all roles involved"],
  "tools_systems": ["tools and systems used"],
  "compliance_requirements": ["regulatory or policy requirements"]
}

Use empty strings and empty arrays for information the document does not provide. Do not invent steps that are not in the document.`

// BuildPrompt composes the extraction request payload: the instruction
// template, a document-identifying header, and the document content.
//
// Content longer than maxContentLength characters is truncated to the
// first maxContentLength characters with a logged warning - content loss
// is expected for very large documents, not fatal. A non-positive
// maxContentLength falls back to domain.DefaultMaxContentLength.
func BuildPrompt(template, documentName, documentContent string, maxContentLength int) string {
	if maxContentLength <= 0 {
		maxContentLength = domain.DefaultMaxContentLength
	}

	// Byte length bounds rune count, so short content skips the conversion.
	if len(documentContent) > maxContentLength {
		if runes := []rune(documentContent); len(runes) > maxContentLength {
			logger.Warn("document %s content too long (%d chars), truncating to %d chars",
				documentName, len(runes), maxContentLength)
			documentContent = string(runes[:maxContentLength])
		}
	}

	return fmt.Sprintf("%s\n\n--- Document: %s ---\n\n%s", template, documentName, documentContent)
}
