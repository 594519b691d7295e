// Package domain defines the core business entities for procflow.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProcessFlow: A normalised process extracted from one document
//   - Step: An ordered action within a ProcessFlow
//   - DocumentInput: A source document handed to the pipeline
//   - ExtractionSettings: Provider configuration for an extraction run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
