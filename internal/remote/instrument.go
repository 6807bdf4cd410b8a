package remote

import (
	"context"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

type instrumentedStore struct {
	next    Store
	metrics *metrics.Metrics
	backend string
}

// Instrument records request counts and latency of every Load and Save on next.
func Instrument(next Store, m *metrics.Metrics, backend string) Store {
	return &instrumentedStore{next: next, metrics: m, backend: backend}
}

func (s *instrumentedStore) Load(ctx context.Context, code string) ([]models.Marker, error) {
	start := time.Now()
	markers, err := s.next.Load(ctx, code)
	s.observe("load", start, err)

	return markers, err
}

func (s *instrumentedStore) Save(ctx context.Context, code string, markers []models.Marker) error {
	start := time.Now()
	err := s.next.Save(ctx, code, markers)
	s.observe("save", start, err)

	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.next)
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RemoteSeconds.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	s.metrics.RemoteRequests.WithLabelValues(s.backend, op, status).Inc()
}
