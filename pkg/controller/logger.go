package controller

import (
	"context"
	"net"
	"net/http"
	"storefront/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// statusRecorder wraps http.ResponseWriter to capture the final HTTP status
// code written by the downstream handler into the RequestContext.
type statusRecorder struct {
	http.ResponseWriter

	rc          *RequestContext
	wroteHeader bool
}

// WriteHeader records the first status code and forwards the call to the underlying writer.
func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.wroteHeader = true
		rec.rc.setStatus(code)
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}

	return rec.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports flushing.
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// GetClientIP attempts to determine the originating client IP address for the
// given request by checking X-Forwarded-For and X-Real-IP headers before
// falling back to the connection's remote address.
func GetClientIP(r *http.Request) string {
	// check X-Forwarded-For first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// may contain multiple IPs: "client, proxy1, proxy2"
		ips := strings.Split(xff, ",")

		return strings.TrimSpace(ips[0]) // the first is original client
	}

	// then check X-Real-IP
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	// fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

// CtxKey is a string-based type used for storing values in request contexts.
// It avoids collisions with other packages' context keys.
type CtxKey string

const (
	// RequestIDKey is the context key under which the current request ID is stored.
	RequestIDKey CtxKey = "request_id"

	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-Id"
)

// GetRequestID returns the ID assigned to the current request by WithLogger.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)

	return id
}

// WithLogger returns a middleware that injects a request-scoped logger, request ID
// and RequestContext into the context, routes JSON responses through an
// interceptor, and writes exactly one access log line once the request is done.
//
// The access log is emitted from a deferred call so it also fires when a handler
// panics. It must be the outermost middleware so it sees the final status.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// set request ID
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		// set logger
		ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

		rc := NewRequestContext(r, time.Now())
		ctx = WithRequestContext(ctx, rc)
		ctx = WithJSONSender(ctx, Intercept(GetJSONSender(ctx), rc))

		rec := &statusRecorder{ResponseWriter: w, rc: rc}

		defer logAccess(ctx, r, rc)

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

func logAccess(ctx context.Context, r *http.Request, rc *RequestContext) {
	// a broken log line must never reach the client
	defer func() { _ = recover() }()

	fields := []zap.Field{
		zap.String("method", rc.Method),
		zap.String("path", rc.Path),
		zap.Int("status", rc.Status()),
		zap.Int64("duration_ms", rc.Elapsed(time.Now()).Milliseconds()),
		zap.String("client_ip", GetClientIP(r)),
		zap.String("user_agent", r.UserAgent()),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	if body, ok := rc.CapturedBody(); ok {
		fields = append(fields, zap.Any("body", body))
	}

	logger.Info(ctx, "Access log", fields...)
}
