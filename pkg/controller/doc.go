// Package controller contains the HTTP request pipeline shared by every route.
//
// Provided middlewares:
//   - WithLogger: Assigns a request ID, installs the RequestContext and the JSON
//     interceptor, and writes one access log line per request.
//   - WithCORS: Adds CORS headers and answers OPTIONS preflight with 200.
//   - WithRecovery: Turns handler panics into 500 responses.
//   - WithMetrics: Records request count and latency on an OpenTelemetry meter.
//   - WithUIState: Binds the caller's session UI state to the request context.
//
// Handlers return errors through HandlerFunc; Normalize and WriteError convert
// them into the {"message": ...} envelope. JSON responses go through JSON so the
// access log can include them.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
//   - NotFound: The catch-all 404 handler.
package controller
