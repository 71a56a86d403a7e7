package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordSourceResult("gold_api", "ok")
	r.RecordSourceResult("gold_api", "ok")
	r.RecordPublish(true)
	r.RecordPublish(false)
	r.RecordPublish(false)
	r.RecordRate("gold", 53370)

	require.Equal(t, 2.0, testutil.ToFloat64(r.sourceResults.WithLabelValues("gold_api", "ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(r.publishes.WithLabelValues("damped")))
	require.Equal(t, 53370.0, testutil.ToFloat64(r.rate24kt.WithLabelValues("gold")))
}
