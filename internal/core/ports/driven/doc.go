// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LLMClient: Sends an extraction prompt to a provider, returns raw text
//   - FlowStore: Transactional persistence for extracted process flows
//   - DocumentSource: Yields documents for a pipeline run
//
// # Optional Interfaces
//
//   - PromptStore: Customisable prompt templates. When nil, services fall
//     back to embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
