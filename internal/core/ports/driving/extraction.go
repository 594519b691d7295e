package driving

import (
	"context"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// Stage identifies a position in the per-document pipeline state machine.
// A document advances Pending -> Prompted -> Sent -> Recovered ->
// Normalized -> Persisted, or stops at Failed with the failing stage
// recorded.
type Stage string

// Pipeline stages.
const (
	StagePending    Stage = "pending"
	StagePrompted   Stage = "prompted"
	StageSent       Stage = "sent"
	StageRecovered  Stage = "recovered"
	StageNormalized Stage = "normalized"
	StagePersisted  Stage = "persisted"
)

// FailureRecord captures one document's terminal failure: which document,
// at which stage, and why. No failure is dropped without a record.
type FailureRecord struct {
	// Document is the name of the failed document.
	Document string

	// Stage is the stage the document was entering when it failed.
	Stage Stage

	// Err is the underlying error.
	Err error
}

// BatchResult aggregates one pipeline run over a document batch.
type BatchResult struct {
	// RunID uniquely identifies this batch run in logs and output.
	RunID string

	// FlowIDs are the identifiers of persisted flows, in input order.
	// Failed documents contribute nothing here.
	FlowIDs []int64

	// Failures holds one record per failed document.
	Failures []FailureRecord
}

// ExtractionService runs the extraction pipeline over documents.
type ExtractionService interface {
	// ExtractDocument runs one document through the full pipeline and
	// returns the persisted flow.
	ExtractDocument(ctx context.Context, doc domain.DocumentInput) (*domain.ProcessFlow, error)

	// ExtractBatch runs each document through the pipeline sequentially.
	// A document's failure at any stage is recorded and skipped; the batch
	// never aborts early.
	ExtractBatch(ctx context.Context, docs []domain.DocumentInput) BatchResult
}
