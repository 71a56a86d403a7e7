package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAPIMetrics(t *testing.T) {
	t.Parallel()

	m := NewAPIMetrics(prometheus.NewRegistry())

	failed := true
	m.Observe("estimate", time.Now(), &failed)
	m.Observe("rates", time.Now(), nil)
	m.Estimate("gold", "22KT")
	m.Refresh()

	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("estimate")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.errors.WithLabelValues("rates")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.estimates.WithLabelValues("gold", "22KT")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.refreshes))

	var nilMetrics *APIMetrics
	require.NotPanics(t, func() { nilMetrics.Refresh() })
}
