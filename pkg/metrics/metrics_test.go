package metrics_test

import (
	"context"
	"storefront/pkg/metrics"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider_ExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := metrics.Meter(mp).Int64Counter("checkout.attempts")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		name := strings.ReplaceAll(mf.GetName(), ".", "_")
		if !strings.HasPrefix(name, "checkout_attempts") {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		require.InDelta(t, 3, mf.GetMetric()[0].GetCounter().GetValue(), 0)
	}
	require.True(t, found, "counter is gathered by the registry")
}
