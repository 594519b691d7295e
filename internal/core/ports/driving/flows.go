package driving

import (
	"context"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// FlowService exposes stored process flows to the CLI.
type FlowService interface {
	// List returns summaries of all stored flows, newest first.
	List(ctx context.Context) ([]domain.FlowSummary, error)

	// Get reconstructs one stored flow with all children.
	Get(ctx context.Context, id int64) (*domain.ProcessFlow, error)

	// Delete removes a flow and, by cascade, its children.
	Delete(ctx context.Context, id int64) error
}
