// Package services implements the driving port interfaces.
// Services contain the core business logic - prompt construction,
// structural recovery of model output, flow normalisation and the
// pipeline orchestrator - and orchestrate calls to driven ports.
package services
