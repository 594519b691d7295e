package driven

import (
	"context"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// DocumentSource yields the documents for one pipeline run.
// An empty result is a valid no-op batch.
type DocumentSource interface {
	// Documents reads and returns all documents from the source.
	// Unreadable individual files are skipped with a logged warning.
	Documents(ctx context.Context) ([]domain.DocumentInput, error)
}

// WatchableSource is an optional extension for sources that can report
// changed documents as they appear.
type WatchableSource interface {
	DocumentSource

	// Watch emits a document each time one is created or modified under
	// the source. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.DocumentInput, error)
}
