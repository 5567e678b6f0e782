package controller

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// RequestContext is the per-request record shared by the logging, interception
// and metrics middlewares. It is created when a request enters WithLogger and
// dropped after the access log line is written.
//
// A handler goroutine may outlive its response when http.TimeoutHandler gives up
// on it, so the mutable fields are guarded.
type RequestContext struct {
	Method    string
	Path      string
	StartTime time.Time

	mu       sync.Mutex
	body     any
	captured bool
	status   int
}

// NewRequestContext starts the record for r at start.
func NewRequestContext(r *http.Request, start time.Time) *RequestContext {
	return &RequestContext{
		Method:    r.Method,
		Path:      r.URL.Path,
		StartTime: start,
		status:    http.StatusOK,
	}
}

// CaptureBody records the JSON payload sent for the request.
func (rc *RequestContext) CaptureBody(payload any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.body = payload
	rc.captured = true
}

// CapturedBody returns the recorded payload. ok is false when no JSON was sent.
func (rc *RequestContext) CapturedBody() (payload any, ok bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.body, rc.captured
}

func (rc *RequestContext) setStatus(code int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.status = code
}

// Status returns the status code written so far, 200 when nothing set it explicitly.
func (rc *RequestContext) Status() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.status
}

// Elapsed returns the time since StartTime, never negative.
func (rc *RequestContext) Elapsed(now time.Time) time.Duration {
	d := now.Sub(rc.StartTime)
	if d < 0 {
		return 0
	}

	return d
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// GetRequestContext returns the RequestContext of the current request, or nil
// outside WithLogger.
func GetRequestContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)

	return rc
}
