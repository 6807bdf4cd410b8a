package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.CommandsProcessed.WithLabelValues("addMarker", "ok").Inc()
	m.RemoteRequests.WithLabelValues("firebase", "load", "ok").Inc()
	m.RemoteSeconds.WithLabelValues("firebase", "load").Observe(0.2)
	m.Markers.Set(3)
	m.MarkersDropped.Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.CommandsProcessed.WithLabelValues("addMarker", "ok")), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Markers), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.MarkersDropped), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
