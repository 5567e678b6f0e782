package controller

import (
	"fmt"
	"net/http"
	"storefront/pkg/logger"
	"storefront/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultErrorMessage is sent when a failure carries no usable status.
const DefaultErrorMessage = "Internal Server Error"

// ErrorEnvelope is the uniform client-visible shape of a failed request.
// Only Message is part of the body; Status becomes the response status.
type ErrorEnvelope struct {
	Status  int
	Message string
}

// Encode writes the envelope body to e.
func (env ErrorEnvelope) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("message")
	e.Str(env.Message)
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (env ErrorEnvelope) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	env.Encode(&e)

	return e.Bytes(), nil
}

type statusCoder interface{ StatusCode() int }

type statuser interface{ Status() int }

type messager interface{ Message() string }

func validStatus(code int) bool {
	return code >= 100 && code <= 599
}

// chain returns err followed by everything it wraps, depth first.
func chain(err error) []error {
	var errs []error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		errs = append(errs, e)
		switch u := e.(type) { //nolint: errorlint
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)

	return errs
}

// Normalize converts any failure into an ErrorEnvelope.
//
// The status is the first valid StatusCode() or Status() found along the wrap
// chain, then the status of a serrors kind in the chain. A failure without a
// status is reported as 500 "Internal Server Error" whatever its text says.
// Otherwise the message is the first non-empty Message() in the chain, then the
// Error() text of the status carrier when it has no Message method. A status
// without any text keeps the generic "Internal Server Error" message.
func Normalize(err error) ErrorEnvelope {
	errs := chain(err)

	var (
		status  int
		carrier error
	)
	for _, e := range errs {
		code := 0
		switch v := e.(type) { //nolint: errorlint
		case statusCoder:
			code = v.StatusCode()
		case statuser:
			code = v.Status()
		}
		if validStatus(code) {
			status, carrier = code, e

			break
		}
	}
	if status == 0 {
		for _, e := range errs {
			if k, ok := e.(serrors.Kind); ok && validStatus(serrors.KindStatus(k)) { //nolint: errorlint
				status = serrors.KindStatus(k)

				break
			}
		}
	}
	if status == 0 {
		return ErrorEnvelope{Status: http.StatusInternalServerError, Message: DefaultErrorMessage}
	}

	env := ErrorEnvelope{Status: status}
	for _, e := range errs {
		if m, ok := e.(messager); ok && m.Message() != "" { //nolint: errorlint
			env.Message = m.Message()

			return env
		}
	}
	if carrier != nil {
		if _, ok := carrier.(messager); !ok { //nolint: errorlint
			env.Message = carrier.Error()
		}
	}
	if env.Message == "" {
		env.Message = DefaultErrorMessage
	}

	return env
}

// WriteError logs err and sends its normalized envelope. It must be called at
// most once per request, before anything else was written.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	env := Normalize(err)
	ctx := r.Context()

	fields := []zap.Field{zap.Error(err), zap.Int("status", env.Status)}
	if env.Status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", fields...)
	} else {
		logger.Warn(ctx, "request rejected", fields...)
	}

	if err := JSON(w, r, env.Status, env); err != nil {
		logger.Error(ctx, "could not write error response", zap.Error(err))
	}
}

// trackingWriter remembers whether the handler already started its response.
type trackingWriter struct {
	http.ResponseWriter

	wrote bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.wrote = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.wrote = true

	return tw.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports flushing.
func (tw *trackingWriter) Flush() {
	if f, ok := tw.ResponseWriter.(http.Flusher); ok {
		tw.wrote = true
		f.Flush()
	}
}

func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// HandlerFunc is an HTTP handler that reports failures by returning them.
// The returned error is converted into a response exactly once, at the boundary.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP implements http.Handler.
func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tw := &trackingWriter{ResponseWriter: w}

	err := h(tw, r)
	if err == nil {
		return
	}
	if tw.wrote {
		logger.Error(r.Context(), "handler failed after writing response", zap.Error(err))

		return
	}

	WriteError(w, r, err)
}

// WithRecovery returns a middleware that turns a panicking handler into a 500
// response. http.ErrAbortHandler is re-raised so the server can abort the connection.
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}

		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler { //nolint: errorlint
				panic(p)
			}

			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", p)
			}
			if tw.wrote {
				logger.Error(r.Context(), "recovered panic after writing response", zap.Error(err))

				return
			}
			WriteError(w, r, serrors.Wrap(serrors.ErrInternal, err, DefaultErrorMessage))
		}()

		next.ServeHTTP(tw, r)
	})
}

// NotFound answers every request with 404 "Not Found".
func NotFound() http.Handler {
	return HandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return serrors.Status(http.StatusNotFound, "Not Found")
	})
}
