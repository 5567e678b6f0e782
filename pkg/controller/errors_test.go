package controller_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"storefront/pkg/controller"
	"storefront/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type codedError struct {
	code int
	text string
}

func (e codedError) Error() string   { return e.text }
func (e codedError) StatusCode() int { return e.code }

type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string   { return "status error" }
func (e *statusError) Status() int     { return e.status }
func (e *statusError) Message() string { return e.msg }

func TestNormalize(t *testing.T) {
	internal := controller.ErrorEnvelope{Status: http.StatusInternalServerError, Message: "Internal Server Error"}

	tests := []struct {
		name string
		err  error
		want controller.ErrorEnvelope
	}{
		{name: "nil", err: nil, want: internal},
		{name: "no status", err: errors.New("pq: connection refused"), want: internal},
		{name: "empty text", err: errors.New(""), want: internal},
		{
			name: "explicit not found",
			err:  serrors.Status(http.StatusNotFound, "Not Found"),
			want: controller.ErrorEnvelope{Status: http.StatusNotFound, Message: "Not Found"},
		},
		{
			name: "kind only",
			err:  serrors.KindOnly(serrors.ErrNotFound),
			want: controller.ErrorEnvelope{Status: http.StatusNotFound, Message: "Internal Server Error"},
		},
		{
			name: "kind with message",
			err:  serrors.With(serrors.ErrBadRequest, "name is required"),
			want: controller.ErrorEnvelope{Status: http.StatusBadRequest, Message: "name is required"},
		},
		{
			name: "wrapped kind sentinel",
			err:  fmt.Errorf("could not store product: %w", serrors.ErrConflict),
			want: controller.ErrorEnvelope{Status: http.StatusConflict, Message: "Internal Server Error"},
		},
		{
			name: "custom status code",
			err:  codedError{code: http.StatusTeapot, text: "short and stout"},
			want: controller.ErrorEnvelope{Status: http.StatusTeapot, Message: "short and stout"},
		},
		{
			name: "custom status code without text",
			err:  codedError{code: http.StatusTeapot},
			want: controller.ErrorEnvelope{Status: http.StatusTeapot, Message: "Internal Server Error"},
		},
		{
			name: "custom status through wrap chain",
			err:  fmt.Errorf("handler: %w", codedError{code: http.StatusGone, text: "gone for good"}),
			want: controller.ErrorEnvelope{Status: http.StatusGone, Message: "gone for good"},
		},
		{
			name: "status method with message",
			err:  &statusError{status: http.StatusForbidden, msg: "not yours"},
			want: controller.ErrorEnvelope{Status: http.StatusForbidden, Message: "not yours"},
		},
		{
			name: "status method with empty message",
			err:  &statusError{status: http.StatusForbidden},
			want: controller.ErrorEnvelope{Status: http.StatusForbidden, Message: "Internal Server Error"},
		},
		{
			name: "invalid status",
			err:  codedError{code: 42, text: "nonsense"},
			want: internal,
		},
		{
			name: "status above range",
			err:  codedError{code: 600, text: "nonsense"},
			want: internal,
		},
		{
			name: "joined errors",
			err:  errors.Join(errors.New("first"), serrors.With(serrors.ErrNotFound, "product not found")),
			want: controller.ErrorEnvelope{Status: http.StatusNotFound, Message: "product not found"},
		},
		{
			name: "custom kind without status",
			err:  serrors.KindOnly(serrors.NewKind("CUSTOM")),
			want: internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, controller.Normalize(tt.err))
		})
	}
}

func TestErrorEnvelope_MarshalJSON(t *testing.T) {
	b, err := controller.ErrorEnvelope{Status: http.StatusNotFound, Message: `say "hi"`}.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"message":"say \"hi\""}`, string(b))
}

func TestWriteError_NotFoundExact(t *testing.T) {
	req, logs := newObservedRequest(t, http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	controller.WriteError(rec, req, serrors.Status(http.StatusNotFound, "Not Found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())

	entries := logs.FilterMessage("request rejected").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestWriteError_DefaultsTo500(t *testing.T) {
	req, logs := newObservedRequest(t, http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	controller.WriteError(rec, req, errors.New("secret internal detail"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "secret")

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "secret internal detail", entries[0].ContextMap()["error"])
}

func TestHandlerFunc(t *testing.T) {
	t.Run("success passes through", func(t *testing.T) {
		h := controller.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)

			return nil
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("error is normalized once", func(t *testing.T) {
		h := controller.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			return serrors.With(serrors.ErrBadRequest, "invalid price")
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"message":"invalid price"}`, rec.Body.String())
	})

	t.Run("error after write is only logged", func(t *testing.T) {
		req, logs := newObservedRequest(t, http.MethodGet, "/", nil)
		h := controller.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			_, _ = w.Write([]byte("partial"))

			return errors.New("stream broke")
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "partial", rec.Body.String())
		require.Equal(t, 1, logs.FilterMessage("handler failed after writing response").Len())
	})
}

func TestWithRecovery(t *testing.T) {
	t.Run("panic becomes 500", func(t *testing.T) {
		h := controller.WithRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(serrors.With(serrors.ErrBadRequest, "should not leak"))
		}))
		rec := httptest.NewRecorder()
		require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
	})

	t.Run("panic after write keeps response", func(t *testing.T) {
		h := controller.WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			panic("late")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Empty(t, rec.Body.String())
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		h := controller.WithRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		require.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestNotFound(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := httptest.NewRecorder()
		controller.NotFound().ServeHTTP(rec, httptest.NewRequest(method, "/nowhere", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
	}
}

func TestHandlerFunc_ExposesFlusher(t *testing.T) {
	var isFlusher bool
	h := controller.WithRecovery(controller.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		f, ok := w.(http.Flusher)
		isFlusher = ok
		if ok {
			f.Flush()
		}

		return errors.New("failed after flushing")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.True(t, isFlusher)
	require.True(t, rec.Flushed)
	require.Empty(t, rec.Body.String(), "a flushed response is not followed by an error body")
}
