package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driving"
	"github.com/procflow-labs/procflow-cli/internal/logger"
)

// ExtractionServiceImpl runs documents through the extraction pipeline:
// build prompt, call the model, recover the object, normalise it, persist
// it. Documents are independent - one failing never aborts the batch.
type ExtractionServiceImpl struct {
	llm              driven.LLMClient
	flows            driven.FlowStore
	prompts          driven.PromptStore
	limiter          *rate.Limiter
	maxContentLength int
}

// Compile-time interface check.
var _ driving.ExtractionService = (*ExtractionServiceImpl)(nil)

// NewExtractionService creates the pipeline orchestrator. prompts and
// limiter may be nil: without a store the embedded default template is
// used, without a limiter calls go out unthrottled.
func NewExtractionService(llm driven.LLMClient, flows driven.FlowStore, prompts driven.PromptStore, limiter *rate.Limiter, maxContentLength int) *ExtractionServiceImpl {
	if maxContentLength <= 0 {
		maxContentLength = domain.DefaultMaxContentLength
	}
	return &ExtractionServiceImpl{
		llm:              llm,
		flows:            flows,
		prompts:          prompts,
		limiter:          limiter,
		maxContentLength: maxContentLength,
	}
}

// ExtractDocument runs one document through the full pipeline and returns
// the persisted flow with its assigned identifier.
func (s *ExtractionServiceImpl) ExtractDocument(ctx context.Context, doc domain.DocumentInput) (*domain.ProcessFlow, error) {
	flow, _, err := s.extract(ctx, doc)
	return flow, err
}

// ExtractBatch runs each document through the pipeline sequentially.
// Failures are recorded per document and the batch continues; an empty
// input yields an empty result.
func (s *ExtractionServiceImpl) ExtractBatch(ctx context.Context, docs []domain.DocumentInput) driving.BatchResult {
	result := driving.BatchResult{RunID: uuid.NewString()}

	logger.Info("starting extraction run %s over %d document(s) with model %s",
		result.RunID, len(docs), s.llm.ModelName())

	for _, doc := range docs {
		flow, stage, err := s.extract(ctx, doc)
		if err != nil {
			logger.Warn("run %s: document %s failed at stage %s: %v", result.RunID, doc.Name, stage, err)
			result.Failures = append(result.Failures, driving.FailureRecord{
				Document: doc.Name,
				Stage:    stage,
				Err:      err,
			})
			continue
		}
		result.FlowIDs = append(result.FlowIDs, flow.ID)
	}

	logger.Info("run %s finished: %d persisted, %d failed",
		result.RunID, len(result.FlowIDs), len(result.Failures))
	return result
}

// extract advances one document through the stage machine. On error it
// reports the stage the document was entering when it failed.
func (s *ExtractionServiceImpl) extract(ctx context.Context, doc domain.DocumentInput) (*domain.ProcessFlow, driving.Stage, error) {
	if doc.Content == "" {
		return nil, driving.StagePrompted, fmt.Errorf("%w: document %s is empty", domain.ErrInvalidInput, doc.Name)
	}

	template := s.template()
	prompt := BuildPrompt(template, doc.Name, doc.Content, s.maxContentLength)
	logger.Debug("document %s: prompt built (%d chars)", doc.Name, len(prompt))

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, driving.StageSent, fmt.Errorf("%w: rate limiter: %w", domain.ErrTransport, err)
		}
	}

	rawText, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, driving.StageSent, err
	}
	logger.Debug("document %s: model returned %d chars", doc.Name, len(rawText))

	obj, err := RecoverObject(rawText)
	if err != nil {
		return nil, driving.StageRecovered, err
	}

	flow := NormalizeFlow(obj, doc.Name, doc.Path, doc.RelativePath, s.llm.ModelName())

	id, err := s.flows.SaveFlow(ctx, flow)
	if err != nil {
		return nil, driving.StagePersisted, err
	}
	flow.ID = id

	logger.Info("document %s: persisted flow %d (%q, %d steps)",
		doc.Name, id, flow.ProcessName, len(flow.Steps))
	return flow, driving.StagePersisted, nil
}

// template resolves the extraction prompt template, falling back to the
// embedded default when no store is configured or the named prompt cannot
// be loaded.
func (s *ExtractionServiceImpl) template() string {
	if s.prompts == nil {
		return DefaultExtractionPrompt
	}
	template, err := s.prompts.Load(driven.PromptExtraction)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("loading extraction prompt: %v, using embedded default", err)
		}
		return DefaultExtractionPrompt
	}
	return template
}
