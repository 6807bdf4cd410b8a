package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CommandsProcessed *prometheus.CounterVec
	RemoteRequests    *prometheus.CounterVec
	RemoteSeconds     *prometheus.HistogramVec
	Markers           prometheus.Gauge
	MarkersDropped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CommandsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_commands_processed_total",
			Help: "Total number of session commands handled, by command type and outcome.",
		}, []string{"command", "status"}),
		RemoteRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_remote_requests_total",
			Help: "Total number of requests sent to the remote marker store.",
		}, []string{"backend", "operation", "status"}),
		RemoteSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waypoint_remote_request_duration_seconds",
			Help:    "Duration of requests to the remote marker store.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		Markers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "waypoint_markers",
			Help: "Current number of markers in the session collection.",
		}),
		MarkersDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_markers_dropped_total",
			Help: "Total number of loaded markers dropped for an invalid or repeated name.",
		}),
	}
}
