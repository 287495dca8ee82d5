// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [ArtifactLoader]: Reads the function source from disk
//   - [SyntaxValidator]: Parses packaged code without executing it
//   - [FunctionUpdater]: Performs one upload attempt against the remote API
//   - [Sleeper]: Blocks between attempts; injected so tests can record delays
//   - [ReportWriter]: Persists the terminal outcome of a run
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, the esbuild parser, net/http and zerolog.
package ports
