// Package memory provides in-memory implementations of storage ports.
// Used for dry runs, where extraction results must not outlive the
// process, and as a lightweight store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
)

// Ensure FlowStore implements the interface.
var _ driven.FlowStore = (*FlowStore)(nil)

// FlowStore is an in-memory flow store safe for concurrent use.
type FlowStore struct {
	mu     sync.RWMutex
	flows  map[int64]*domain.ProcessFlow
	nextID int64
}

// NewFlowStore creates an empty in-memory flow store.
func NewFlowStore() *FlowStore {
	return &FlowStore{
		flows:  make(map[int64]*domain.ProcessFlow),
		nextID: 1,
	}
}

// SaveFlow stores a copy of the flow and returns its assigned identifier.
func (s *FlowStore) SaveFlow(_ context.Context, flow *domain.ProcessFlow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	stored := *flow
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.flows[id] = &stored

	return id, nil
}

// GetFlow returns the stored flow for id.
func (s *FlowStore) GetFlow(_ context.Context, id int64) (*domain.ProcessFlow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flow, ok := s.flows[id]
	if !ok {
		return nil, fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
	}

	copied := *flow
	return &copied, nil
}

// ListFlows returns summaries of all stored flows, newest first.
func (s *FlowStore) ListFlows(_ context.Context) ([]domain.FlowSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.FlowSummary, 0, len(s.flows))
	for _, flow := range s.flows {
		summaries = append(summaries, domain.FlowSummary{
			ID:                 flow.ID,
			ProcessName:        flow.ProcessName,
			ProcessDescription: flow.ProcessDescription,
			SourceDocument:     flow.SourceDocument,
			ExtractionModel:    flow.ExtractionModel,
			StepCount:          len(flow.Steps),
			CreatedAt:          flow.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// DeleteFlow removes the stored flow for id.
func (s *FlowStore) DeleteFlow(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flows[id]; !ok {
		return fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
	}
	delete(s.flows, id)
	return nil
}
