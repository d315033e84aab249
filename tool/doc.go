// Package tool defines the contract boundary for asynctoolkit tools.
//
// The package is intentionally split by concern:
//   - registry: named extension storage with deterministic default selection
//   - directory: process-wide tool lookup and dispatch
//   - observability: invocation observations and observer wiring
//   - store: invocation history persistence
//
// A tool is a named capability (for example "http" or "packageinstaller")
// that routes each call through one of several interchangeable backend
// extensions. Extensions are registered during process initialization and
// the registry is read-mostly afterwards, so lookups are cheap and safe
// from any goroutine.
package tool
