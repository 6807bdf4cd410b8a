package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	mu       sync.Mutex
	messages []*gelf.Message
	err      error
}

func (c *captureWriter) WriteMessage(m *gelf.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return c.err
}

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("handler failed")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&first, &slog.HandlerOptions{Level: slog.LevelDebug}),
		nil,
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))

	logger.Debug("debug only")
	logger.Warn("everywhere", "code", "demo")

	assert.Contains(t, first.String(), "debug only")
	assert.Contains(t, first.String(), "everywhere")
	assert.NotContains(t, second.String(), "debug only")
	assert.Contains(t, second.String(), "code=demo")
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
	assert.False(t, NewMultiHandler().Enabled(t.Context(), slog.LevelError))
}

func TestMultiHandler_ContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{Handler: text}, text)

	err := h.Handle(t.Context(), slog.NewRecord(timeZero, slog.LevelInfo, "still written", 0))

	require.ErrorContains(t, err, "handler failed")
	assert.Contains(t, buf.String(), "still written")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMultiHandler(slog.NewTextHandler(&buf, nil)))

	logger.With("service", "waypoint").WithGroup("remote").Info("saved", "count", 2)

	assert.Contains(t, buf.String(), "service=waypoint")
	assert.Contains(t, buf.String(), "remote.count=2")
}

func TestGraylogHandler(t *testing.T) {
	w := &captureWriter{}
	logger := slog.New(NewGraylogHandler(w, "waypoint", slog.LevelInfo))

	logger.Debug("filtered")
	logger.With("env", "production").WithGroup("remote").Error("save failed", "status", 502, "retry", false)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "save failed", msg.Short)
	assert.Equal(t, "waypoint", msg.Facility)
	assert.Equal(t, int32(3), msg.Level)
	assert.Equal(t, "1.1", msg.Version)
	assert.Equal(t, "production", msg.Extra["_env"])
	assert.Equal(t, int64(502), msg.Extra["_remote.status"])
	assert.Equal(t, false, msg.Extra["_remote.retry"])
	assert.Positive(t, msg.TimeUnix)
}

func TestGraylogHandler_WriteError(t *testing.T) {
	w := &captureWriter{err: assert.AnError}
	h := NewGraylogHandler(w, "waypoint", slog.LevelDebug)

	err := h.Handle(t.Context(), slog.NewRecord(timeZero, slog.LevelWarn, "x", 0))

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int32(4), w.messages[0].Level)
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, int32(7), severity(slog.LevelDebug))
	assert.Equal(t, int32(6), severity(slog.LevelInfo))
	assert.Equal(t, int32(4), severity(slog.LevelWarn))
	assert.Equal(t, int32(3), severity(slog.LevelError))
}

var timeZero = time.Time{}
