// Package session owns the state of one marker editing session and applies the
// commands sent by the browser one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/waypoint/internal/dispatcher"
	"github.com/UnknownOlympus/waypoint/internal/listview"
	"github.com/UnknownOlympus/waypoint/internal/mapview"
	"github.com/UnknownOlympus/waypoint/internal/markers"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/prefs"
	"github.com/UnknownOlympus/waypoint/internal/remote"
)

// DefaultFocusZoom is the zoom level used when a list row is selected.
const DefaultFocusZoom = 7

// Options tunes controller behavior.
type Options struct {
	ConfirmDelete bool // Reject DeleteMarker unless Confirmed is set
	FocusZoom     int  // Zoom level for SelectRow
}

type request struct {
	ctx   context.Context
	cmd   dispatcher.Command
	reply chan Result
}

// Controller is the session state machine. All state is owned by the Run loop.
type Controller struct {
	log        *slog.Logger      // Logger for logging session activity
	remote     remote.Store      // Remote marker document store
	prefs      prefs.Store       // Local storage for the access code
	metrics    *metrics.Metrics  // Metrics for commands and collection size
	dispatcher *dispatcher.Dispatcher
	opts       Options

	markers *markers.Store
	mapView *mapview.Binding
	list    *listview.List

	code            string
	loadedCode      string // code whose document the collection was last read from
	controlsEnabled bool
	query           string
	order           models.SortOrder
	dropped         int

	requests chan request
	done     chan struct{}
}

// NewController creates a controller in the Unauthenticated state.
func NewController(
	log *slog.Logger,
	store remote.Store,
	prefStore prefs.Store,
	m *metrics.Metrics,
	mapView *mapview.Binding,
	opts Options,
) (*Controller, error) {
	if opts.FocusZoom == 0 {
		opts.FocusZoom = DefaultFocusZoom
	}

	disp, err := dispatcher.New(dispatcher.SlogLogger(log))
	if err != nil {
		return nil, err
	}

	c := &Controller{
		log:        log,
		remote:     store,
		prefs:      prefStore,
		metrics:    m,
		dispatcher: disp,
		opts:       opts,
		markers:    markers.New(),
		mapView:    mapView,
		list:       listview.New(),
		requests:   make(chan request),
		done:       make(chan struct{}),
	}

	disp.Register(CommandAuthenticate, dispatcher.Handle(c.authenticate), dispatcher.Logged())
	disp.Register(CommandRestore, dispatcher.Handle(c.restore), dispatcher.Logged())
	disp.Register(CommandAddMarker, dispatcher.Handle(c.addMarker), dispatcher.Logged())
	disp.Register(CommandDeleteMarker, dispatcher.Handle(c.deleteMarker), dispatcher.Logged())
	disp.Register(CommandSearch, dispatcher.Handle(c.search))
	disp.Register(CommandSort, dispatcher.Handle(c.sort))
	disp.Register(CommandSelectRow, dispatcher.Handle(c.selectRow))
	disp.Register(commandSnapshot, dispatcher.Handle(func(context.Context, snapshot) error { return nil }))

	return c, nil
}

// Run handles submitted commands until ctx is canceled. Commands never overlap,
// including their remote store round trips.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)

	c.log.InfoContext(ctx, "Session controller started")

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Session controller stopped")
			return
		case req := <-c.requests:
			// A started command runs to completion even if its caller goes away.
			req.reply <- c.handle(context.WithoutCancel(req.ctx), req.cmd)
		}
	}
}

// Submit queues cmd for the Run loop and waits for its result. It is safe for
// concurrent use. The returned error is only set when the command could not be
// handled at all; command failures are reported in Result.
func (c *Controller) Submit(ctx context.Context, cmd dispatcher.Command) (Result, error) {
	if !c.dispatcher.HasHandler(cmd.CommandName()) {
		return Result{}, fmt.Errorf("%w: %s", dispatcher.ErrUnknownCommand, cmd.CommandName())
	}

	req := request{ctx: ctx, cmd: cmd, reply: make(chan Result, 1)}

	select {
	case c.requests <- req:
	case <-c.done:
		return Result{}, ErrStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// View returns the current view without changing anything.
func (c *Controller) View(ctx context.Context) (View, error) {
	res, err := c.Submit(ctx, snapshot{})
	return res.View, err
}

func (c *Controller) handle(ctx context.Context, cmd dispatcher.Command) Result {
	err := c.dispatcher.Dispatch(ctx, cmd)
	alert := AlertFor(err)

	status := "ok"
	if alert != nil {
		status = string(alert.Kind)
		c.log.WarnContext(ctx, "Command rejected", "command", cmd.CommandName(), "kind", alert.Kind, "error", err)
	}
	if errors.Is(err, dispatcher.ErrUnknownCommand) {
		status = "unknown"
	}
	c.metrics.CommandsProcessed.WithLabelValues(cmd.CommandName(), status).Inc()

	return Result{View: c.snapshot(), Alert: alert, Err: err}
}

func (c *Controller) state() State {
	if c.code == "" {
		return StateUnauthenticated
	}
	return StateAuthenticated
}

func (c *Controller) snapshot() View {
	view := View{
		State:           c.state(),
		Code:            c.code,
		ControlsEnabled: c.controlsEnabled,
		SearchQuery:     c.query,
		SortOrder:       c.order,
		Markers:         c.markers.Len(),
		Dropped:         c.dropped,
		Rows:            c.list.Rows(),
		Annotations:     c.mapView.Annotations(),
		Viewport:        c.mapView.Viewport(),
	}
	if bounds, ok := c.mapView.Bounds(); ok {
		view.Bounds = &bounds
	}

	return view
}

// render rebuilds the list from the store, applying the standing search query.
// Rebuilt rows start unhighlighted, so the map highlight is dropped with them.
func (c *Controller) render() {
	c.list.Render(c.markers.Filter(markers.NameContains(c.query)))
	c.mapView.ClearHighlight()
	c.metrics.Markers.Set(float64(c.markers.Len()))
}
