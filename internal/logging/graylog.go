package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Syslog severities used by GELF.
const (
	severityError   int32 = 3
	severityWarning int32 = 4
	severityInfo    int32 = 6
	severityDebug   int32 = 7
)

// MessageWriter sends one GELF message.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// GraylogHandler is a slog.Handler that ships records as GELF messages.
type GraylogHandler struct {
	writer   MessageWriter
	level    slog.Leveler
	host     string
	facility string
	attrs    []slog.Attr
	group    string
}

// NewGraylogWriter opens a UDP GELF writer for addr ("host:port").
func NewGraylogWriter(addr string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create graylog writer: %w", err)
	}
	return w, nil
}

// NewGraylogHandler creates a handler writing records at or above level to writer.
func NewGraylogHandler(writer MessageWriter, facility string, level slog.Leveler) *GraylogHandler {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &GraylogHandler{writer: writer, level: level, host: host, facility: facility}
}

func (g *GraylogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= g.level.Level()
}

func (g *GraylogHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]any, len(g.attrs)+r.NumAttrs())
	for _, a := range g.attrs {
		addExtra(extra, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addExtra(extra, g.group, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := &gelf.Message{
		Version:  "1.1",
		Host:     g.host,
		Short:    r.Message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    severity(r.Level),
		Facility: g.facility,
		Extra:    extra,
	}

	return g.writer.WriteMessage(msg)
}

func (g *GraylogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *g
	clone.attrs = make([]slog.Attr, 0, len(g.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, g.attrs...)
	for _, a := range attrs {
		if g.group != "" {
			a.Key = g.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (g *GraylogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return g
	}
	clone := *g
	if g.group == "" {
		clone.group = name
	} else {
		clone.group = g.group + "." + name
	}
	return &clone
}

// addExtra flattens a into extra using GELF additional field names.
func addExtra(extra map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, sub := range a.Value.Group() {
			addExtra(extra, key, sub)
		}
		return
	}

	key = "_" + strings.ReplaceAll(key, " ", "_")
	switch a.Value.Kind() {
	case slog.KindString:
		extra[key] = a.Value.String()
	case slog.KindInt64:
		extra[key] = a.Value.Int64()
	case slog.KindUint64:
		extra[key] = a.Value.Uint64()
	case slog.KindFloat64:
		extra[key] = a.Value.Float64()
	case slog.KindBool:
		extra[key] = a.Value.Bool()
	default:
		extra[key] = a.Value.String()
	}
}

func severity(level slog.Level) int32 {
	switch {
	case level >= slog.LevelError:
		return severityError
	case level >= slog.LevelWarn:
		return severityWarning
	case level >= slog.LevelInfo:
		return severityInfo
	default:
		return severityDebug
	}
}
