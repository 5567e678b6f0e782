package controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"storefront/pkg/logger"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedRequest builds a request whose context logger records every entry.
func newObservedRequest(t *testing.T, method, target string, body io.Reader) (*http.Request, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))

	return req, logs
}

// accessLogs returns the access log entries recorded so far.
func accessLogs(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterMessage("Access log").All()
}
