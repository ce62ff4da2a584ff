// Package types defines the shared domain model of the prompt-to-3D
// pipeline: generation sessions, image slots, normalized task statuses and
// the unified structured error used across adapters, orchestrator and the
// HTTP boundary.
package types
