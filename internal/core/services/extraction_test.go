package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driving"
)

// fakeLLM returns canned responses keyed by a substring of the prompt, or
// a fixed error for prompts matching failOn.
type fakeLLM struct {
	model     string
	responses map[string]string
	failOn    string
	failErr   error
	calls     int
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", f.failErr
	}
	for key, resp := range f.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return `{"process_name": "Default"}`, nil
}

func (f *fakeLLM) ModelName() string          { return f.model }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// fakeFlowStore keeps saved flows in memory with sequential identifiers.
type fakeFlowStore struct {
	mu      sync.Mutex
	flows   map[int64]*domain.ProcessFlow
	nextID  int64
	saveErr error
}

func newFakeFlowStore() *fakeFlowStore {
	return &fakeFlowStore{flows: map[int64]*domain.ProcessFlow{}, nextID: 1}
}

func (s *fakeFlowStore) SaveFlow(_ context.Context, flow *domain.ProcessFlow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	id := s.nextID
	s.nextID++
	copied := *flow
	copied.ID = id
	s.flows[id] = &copied
	return id, nil
}

func (s *fakeFlowStore) GetFlow(_ context.Context, id int64) (*domain.ProcessFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok := s.flows[id]
	if !ok {
		return nil, fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
	}
	return flow, nil
}

func (s *fakeFlowStore) ListFlows(context.Context) ([]domain.FlowSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]domain.FlowSummary, 0, len(s.flows))
	for _, flow := range s.flows {
		summaries = append(summaries, domain.FlowSummary{
			ID:          flow.ID,
			ProcessName: flow.ProcessName,
			StepCount:   len(flow.Steps),
		})
	}
	return summaries, nil
}

func (s *fakeFlowStore) DeleteFlow(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[id]; !ok {
		return fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
	}
	delete(s.flows, id)
	return nil
}

func doc(name, content string) domain.DocumentInput {
	return domain.DocumentInput{
		Name:         name,
		Path:         "/docs/" + name,
		RelativePath: name,
		Content:      content,
	}
}

func TestExtractDocument(t *testing.T) {
	t.Run("happy path persists and stamps identity", func(t *testing.T) {
		llm := &fakeLLM{
			model: "gpt-4o",
			responses: map[string]string{
				"onboarding.md": `{"process_name": "Onboarding", "steps": [{"step_number": 1, "step_name": "Start"}]}`,
			},
		}
		store := newFakeFlowStore()
		svc := NewExtractionService(llm, store, nil, nil, 0)

		flow, err := svc.ExtractDocument(context.Background(), doc("onboarding.md", "Step 1: start."))
		require.NoError(t, err)

		assert.Equal(t, int64(1), flow.ID)
		assert.Equal(t, "Onboarding", flow.ProcessName)
		assert.Equal(t, "onboarding.md", flow.SourceDocument)
		assert.Equal(t, "/docs/onboarding.md", flow.DocumentPath)
		assert.Equal(t, "gpt-4o", flow.ExtractionModel)
		require.Len(t, flow.Steps, 1)
	})

	t.Run("empty document is rejected before the model is called", func(t *testing.T) {
		llm := &fakeLLM{model: "gpt-4o"}
		svc := NewExtractionService(llm, newFakeFlowStore(), nil, nil, 0)

		_, err := svc.ExtractDocument(context.Background(), doc("empty.md", ""))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, llm.calls)
	})

	t.Run("malformed model output surfaces as malformed error", func(t *testing.T) {
		llm := &fakeLLM{
			model:     "gpt-4o",
			responses: map[string]string{"garbled.md": "I cannot produce structured output."},
		}
		svc := NewExtractionService(llm, newFakeFlowStore(), nil, nil, 0)

		_, err := svc.ExtractDocument(context.Background(), doc("garbled.md", "some content"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	})
}

func TestExtractBatch(t *testing.T) {
	t.Run("one failure does not abort the batch", func(t *testing.T) {
		llm := &fakeLLM{
			model: "gpt-4o",
			responses: map[string]string{
				"first.md": `{"process_name": "First"}`,
				"third.md": `{"process_name": "Third"}`,
			},
			failOn:  "second.md",
			failErr: fmt.Errorf("%w: connection refused", domain.ErrTransport),
		}
		store := newFakeFlowStore()
		svc := NewExtractionService(llm, store, nil, nil, 0)

		result := svc.ExtractBatch(context.Background(), []domain.DocumentInput{
			doc("first.md", "content one"),
			doc("second.md", "content two"),
			doc("third.md", "content three"),
		})

		assert.NotEmpty(t, result.RunID)
		require.Len(t, result.FlowIDs, 2)
		assert.Equal(t, []int64{1, 2}, result.FlowIDs)

		require.Len(t, result.Failures, 1)
		failure := result.Failures[0]
		assert.Equal(t, "second.md", failure.Document)
		assert.Equal(t, driving.StageSent, failure.Stage)
		assert.ErrorIs(t, failure.Err, domain.ErrTransport)
	})

	t.Run("storage failure is attributed to the persist stage", func(t *testing.T) {
		llm := &fakeLLM{model: "gpt-4o"}
		store := newFakeFlowStore()
		store.saveErr = fmt.Errorf("%w: disk full", domain.ErrStorage)
		svc := NewExtractionService(llm, store, nil, nil, 0)

		result := svc.ExtractBatch(context.Background(), []domain.DocumentInput{
			doc("only.md", "content"),
		})

		assert.Empty(t, result.FlowIDs)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, driving.StagePersisted, result.Failures[0].Stage)
		assert.ErrorIs(t, result.Failures[0].Err, domain.ErrStorage)
	})

	t.Run("empty batch is a no-op with a run id", func(t *testing.T) {
		llm := &fakeLLM{model: "gpt-4o"}
		svc := NewExtractionService(llm, newFakeFlowStore(), nil, nil, 0)

		result := svc.ExtractBatch(context.Background(), nil)

		assert.NotEmpty(t, result.RunID)
		assert.Empty(t, result.FlowIDs)
		assert.Empty(t, result.Failures)
		assert.Zero(t, llm.calls)
	})
}
