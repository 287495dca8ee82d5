// Package domain contains the core values of a function deployment.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (HTTP, file system, logging) and contains only
// pure transformations and the rules that classify a remote response.
//
// # Values
//
//   - [SourceArtifact]: the function source text as read from disk
//   - [Package]: the artifact prefixed with a provenance header
//   - [RetryPolicy]: attempt budget, backoff and retryability predicate
//   - [AttemptResult]: what a single upload attempt observed
//   - [Outcome]: the terminal result of a deployment run
//
// Everything here is immutable after construction and testable without
// mocks or external systems.
package domain
