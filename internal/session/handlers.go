package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/markers"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/prefs"
)

func (c *Controller) authenticate(ctx context.Context, cmd Authenticate) error {
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		return ErrCodeRequired
	}

	c.code = code
	if err := c.prefs.Set(ctx, prefs.KeyFirebaseCode, code); err != nil {
		c.log.ErrorContext(ctx, "Failed to remember access code", "error", err)
	}

	return c.reload(ctx)
}

func (c *Controller) restore(ctx context.Context, _ Restore) error {
	code, err := c.prefs.Get(ctx, prefs.KeyFirebaseCode)
	if errors.Is(err, prefs.ErrNotFound) || (err == nil && strings.TrimSpace(code) == "") {
		c.log.InfoContext(ctx, "No remembered access code, waiting for authentication")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read remembered access code: %w", err)
	}

	c.code = strings.TrimSpace(code)

	return c.reload(ctx)
}

// reload replaces the collection with the remote document. On failure the
// previous collection stays in place.
func (c *Controller) reload(ctx context.Context) error {
	if err := c.fetch(ctx); err != nil {
		return err
	}

	c.controlsEnabled = true
	c.render()

	return nil
}

// fetch loads the remote document and makes the store and the map match it.
func (c *Controller) fetch(ctx context.Context) error {
	loaded, err := c.remote.Load(ctx, c.code)
	if err != nil {
		return fmt.Errorf("failed to load markers: %w", err)
	}

	kept, rejected := markers.Ingest(loaded)
	for _, r := range rejected {
		c.log.WarnContext(ctx, "Dropped loaded marker", "name", r.Name, "reason", r.Reason)
	}
	c.dropped = len(rejected)
	c.metrics.MarkersDropped.Add(float64(len(rejected)))

	c.markers.ReplaceAll(kept)
	c.mapView.Sync(kept)
	c.order = ""
	c.loadedCode = c.code

	c.log.InfoContext(ctx, "Markers loaded", "count", len(kept), "dropped", len(rejected))

	return nil
}

func (c *Controller) addMarker(ctx context.Context, cmd AddMarker) error {
	if c.state() != StateAuthenticated {
		return ErrNotAuthenticated
	}

	name, err := models.ParseName(cmd.Name)
	if err != nil {
		return err
	}

	// Pick up markers saved by other sessions before writing the whole document back.
	if err = c.fetch(ctx); err != nil {
		return err
	}
	c.controlsEnabled = true
	defer c.render()

	marker := models.Marker{Name: name, Position: cmd.Position}
	if err = c.markers.Add(marker); err != nil {
		return err
	}
	c.mapView.AddAnnotation(marker)

	return c.save(ctx)
}

func (c *Controller) deleteMarker(ctx context.Context, cmd DeleteMarker) error {
	if c.state() != StateAuthenticated {
		return ErrNotAuthenticated
	}
	if c.opts.ConfirmDelete && !cmd.Confirmed {
		return ErrConfirmationRequired
	}
	// The collection still holds another code's document; never write it under this one.
	if c.loadedCode != c.code {
		if err := c.reload(ctx); err != nil {
			return err
		}
	}

	name := models.Name(cmd.Name)
	if !c.markers.Remove(name) {
		c.log.DebugContext(ctx, "Delete requested for unknown marker", "name", name)
		return nil
	}
	c.mapView.RemoveAnnotation(name)
	c.render()

	return c.save(ctx)
}

// save writes the whole collection. A failed save keeps the local change.
func (c *Controller) save(ctx context.Context) error {
	if err := c.remote.Save(ctx, c.code, c.markers.All()); err != nil {
		return fmt.Errorf("failed to save markers: %w", err)
	}

	return nil
}

func (c *Controller) search(_ context.Context, cmd Search) error {
	if !c.controlsEnabled {
		return ErrControlsDisabled
	}

	c.query = cmd.Query
	c.render()

	return nil
}

func (c *Controller) sort(_ context.Context, cmd Sort) error {
	if !c.controlsEnabled {
		return ErrControlsDisabled
	}

	order, err := models.ParseSortOrder(string(cmd.Order))
	if err != nil {
		return err
	}

	c.markers.Sort(markers.ComparatorFor(order))
	c.order = order
	c.render()

	return nil
}

func (c *Controller) selectRow(ctx context.Context, cmd SelectRow) error {
	if !c.controlsEnabled {
		return ErrControlsDisabled
	}

	name := models.Name(cmd.Name)
	marker, ok := c.markers.Find(name)
	if !ok {
		c.log.DebugContext(ctx, "Selected row has no marker", "name", name)
		return nil
	}

	c.mapView.Focus(marker.Position, c.opts.FocusZoom)
	c.list.Highlight(name)
	c.mapView.Highlight(name)

	return nil
}
