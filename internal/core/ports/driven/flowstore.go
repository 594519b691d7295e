package driven

import (
	"context"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// FlowStore persists extracted process flows.
//
// SaveFlow is append-only and atomic: the parent record, its steps, roles,
// tools and compliance requirements commit as one transaction or not at
// all. Calling it twice with the same flow creates two records.
type FlowStore interface {
	// SaveFlow writes the flow and all child collections transactionally
	// and returns the assigned identifier. Write failures wrap
	// domain.ErrStorage with the transaction rolled back in full.
	SaveFlow(ctx context.Context, flow *domain.ProcessFlow) (int64, error)

	// GetFlow reconstructs a stored flow, children included.
	// Returns domain.ErrNotFound if no such flow exists.
	GetFlow(ctx context.Context, id int64) (*domain.ProcessFlow, error)

	// ListFlows returns summaries of all stored flows, newest first.
	ListFlows(ctx context.Context) ([]domain.FlowSummary, error)

	// DeleteFlow removes a flow; child rows cascade at the storage layer.
	DeleteFlow(ctx context.Context, id int64) error
}
