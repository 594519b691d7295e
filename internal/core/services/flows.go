package services

import (
	"context"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driving"
)

// FlowServiceImpl exposes stored flows to the CLI. It is a thin pass
// through to the store - retrieval has no pipeline semantics to add.
type FlowServiceImpl struct {
	flows driven.FlowStore
}

var _ driving.FlowService = (*FlowServiceImpl)(nil)

// NewFlowService creates a flow query service backed by the given store.
func NewFlowService(flows driven.FlowStore) *FlowServiceImpl {
	return &FlowServiceImpl{flows: flows}
}

func (s *FlowServiceImpl) List(ctx context.Context) ([]domain.FlowSummary, error) {
	return s.flows.ListFlows(ctx)
}

func (s *FlowServiceImpl) Get(ctx context.Context, id int64) (*domain.ProcessFlow, error) {
	return s.flows.GetFlow(ctx, id)
}

func (s *FlowServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.flows.DeleteFlow(ctx, id)
}
