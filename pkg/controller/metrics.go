package controller

import (
	"fmt"
	"net/http"
	"storefront/pkg/metrics"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WithMetrics returns a middleware recording a request counter and a latency
// histogram on meter, both labelled by method and final status. Place it outside
// WithRecovery so panics are counted with the status recovery wrote.
func WithMetrics(meter metric.Meter) (func(http.Handler) http.Handler, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of handled HTTP requests."))
	if err != nil {
		return nil, fmt.Errorf("could not create requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Time taken to handle HTTP requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rc := GetRequestContext(r.Context())
			if rc == nil {
				rc = NewRequestContext(r, start)
				w = &statusRecorder{ResponseWriter: w, rc: rc}
			}

			defer func() {
				attrs := metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.Int("status", rc.Status()),
				)
				requests.Add(r.Context(), 1, attrs)
				duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
			}()

			next.ServeHTTP(w, r)
		})
	}, nil
}
