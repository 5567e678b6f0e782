package controller_test

import (
	"net/http"
	"net/http/httptest"
	"storefront/pkg/controller"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireCORSHeaders(t *testing.T, h http.Header) {
	t.Helper()

	require.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, PUT, DELETE, PATCH, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type, Authorization", h.Get("Access-Control-Allow-Headers"))
}

func TestWithCORS_Preflight(t *testing.T) {
	for _, path := range []string{"/", "/anything", "/v1/products/123", "/does/not/exist"} {
		t.Run(path, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodOptions, path, nil)
			rec := httptest.NewRecorder()

			controller.WithCORS(next).ServeHTTP(rec, req)

			require.False(t, called, "next handler should not be called for OPTIONS preflight")
			res := rec.Result()
			require.Equal(t, http.StatusOK, res.StatusCode)
			require.Empty(t, rec.Body.Bytes())
			requireCORSHeaders(t, res.Header)
		})
	}
}

func TestWithCORS_NormalRequest(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/path", nil)
	rec := httptest.NewRecorder()

	controller.WithCORS(next).ServeHTTP(rec, req)

	require.True(t, called, "next handler should be called for non-OPTIONS request")
	res := rec.Result()
	require.Equal(t, http.StatusTeapot, res.StatusCode)
	requireCORSHeaders(t, res.Header)
}

func TestWithCORS_HeadersOnErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/missing", nil)
	rec := httptest.NewRecorder()

	controller.WithCORS(controller.NotFound()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	requireCORSHeaders(t, rec.Header())
}
