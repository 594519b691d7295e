package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction pipeline errors.

	// ErrConfiguration indicates a provider adapter was constructed with
	// missing or invalid configuration (credential, base URL, provider name).
	// Fatal at construction time; never recovered.
	ErrConfiguration = errors.New("invalid provider configuration")

	// ErrTransport indicates a network failure, non-success HTTP status,
	// or timeout on a provider call. The owning document fails.
	ErrTransport = errors.New("provider transport failure")

	// ErrProviderProtocol indicates the transport succeeded but the response
	// could not be interpreted at all (e.g. a non-JSON body where one is
	// required). Unrecognised-but-parseable payloads degrade instead.
	ErrProviderProtocol = errors.New("unrecognised provider response")

	// ErrMalformedOutput indicates the structural recovery engine exhausted
	// all repair strategies on the model output.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrStorage indicates a transactional write failure. The transaction
	// is rolled back in full before this surfaces.
	ErrStorage = errors.New("storage write failure")
)

// rawSnippetLen bounds the diagnostic snippet kept on malformed output.
const rawSnippetLen = 500

// MalformedOutputError carries the offending raw model output, truncated
// for diagnostics, so an operator can inspect what the repair ladder
// could not recover.
type MalformedOutputError struct {
	// Raw is the original model output, truncated to rawSnippetLen.
	Raw string
}

// NewMalformedOutputError builds a MalformedOutputError from raw model
// output, truncating the stored snippet.
func NewMalformedOutputError(raw string) *MalformedOutputError {
	if len(raw) > rawSnippetLen {
		raw = raw[:rawSnippetLen]
	}
	return &MalformedOutputError{Raw: raw}
}

// Error implements the error interface.
func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMalformedOutput, e.Raw)
}

// Is makes errors.Is(err, ErrMalformedOutput) match.
func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrMalformedOutput
}
