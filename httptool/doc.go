// Package httptool implements the HTTP request tool.
//
// The tool routes each request through a named backend extension selected
// at call time (or the first-registered default) and normalizes whatever
// the backend produces into a single Response contract: status, collapsed
// headers, a byte-preserving reason phrase, buffered or streamed body
// access, and opt-in status-code errors. Two backends ship built in:
//
//   - "nethttp": net/http with a shared timeout-keyed client pool
//   - "otelhttp": the same request path behind an instrumented transport
//
// Backends are interchangeable; callers written against Response never
// see which one served them.
package httptool
