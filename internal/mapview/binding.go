// Package mapview keeps the map widget's model: one labelled annotation per live
// marker, the viewport and the highlighted annotation.
package mapview

import (
	"log/slog"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/google/uuid"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
	"googlemaps.github.io/maps"
)

const (
	sridWGS84       = 4326
	sridWebMercator = 3857
)

// Mercator is a position projected to EPSG:3857 for tile renderers.
type Mercator struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is a labelled point drawn on the map layer.
type Annotation struct {
	ID       uuid.UUID       `json:"id"`
	Label    models.Name     `json:"label"`
	Position models.Position `json:"latlng"`
	Mercator Mercator        `json:"mercator"`
	Active   bool            `json:"active"`
}

// Viewport is the visible map region.
type Viewport struct {
	Center models.Position `json:"center"`
	Zoom   int             `json:"zoom"`
}

// Options configures a Binding.
type Options struct {
	Center  models.Position
	Zoom    int
	MinZoom int
	MaxZoom int
}

// Binding associates marker names with annotations on the map layer.
//
// The layer and the index are kept separately: adding a name twice leaves the
// first annotation drawn but unreachable through the index.
type Binding struct {
	log      *slog.Logger
	project  func(a, b, c float64) (float64, float64, float64)
	layer    []*Annotation
	byName   map[models.Name]*Annotation
	viewport Viewport
	minZoom  int
	maxZoom  int
}

// New creates an empty Binding with the initial viewport from opts.
func New(log *slog.Logger, opts Options) *Binding {
	if opts.MinZoom > opts.MaxZoom {
		opts.MinZoom, opts.MaxZoom = opts.MaxZoom, opts.MinZoom
	}
	b := &Binding{
		log:     log,
		project: wgs84.EPSG().Transform(sridWGS84, sridWebMercator),
		byName:  make(map[models.Name]*Annotation),
		minZoom: opts.MinZoom,
		maxZoom: opts.MaxZoom,
	}
	b.viewport = Viewport{Center: opts.Center, Zoom: b.clamp(opts.Zoom)}

	return b
}

// AddAnnotation draws a labelled annotation for marker and indexes it by name.
func (b *Binding) AddAnnotation(marker models.Marker) Annotation {
	x, y, _ := b.project(marker.Position.Lng, marker.Position.Lat, 0)
	ann := &Annotation{
		ID:       uuid.New(),
		Label:    marker.Name,
		Position: marker.Position,
		Mercator: Mercator{X: x, Y: y},
	}

	if _, exists := b.byName[marker.Name]; exists {
		b.log.Warn("annotation replaced in index, previous one stays on the layer",
			slog.String("name", string(marker.Name)))
	}
	b.layer = append(b.layer, ann)
	b.byName[marker.Name] = ann

	return *ann
}

// RemoveAnnotation removes the annotation indexed under name. Unknown names are ignored.
func (b *Binding) RemoveAnnotation(name models.Name) {
	ann, ok := b.byName[name]
	if !ok {
		return
	}
	delete(b.byName, name)
	for i, drawn := range b.layer {
		if drawn == ann {
			b.layer = append(b.layer[:i], b.layer[i+1:]...)
			break
		}
	}
}

// Sync clears the layer, orphans included, and draws one annotation per marker.
func (b *Binding) Sync(markers []models.Marker) {
	b.layer = nil
	clear(b.byName)
	for _, m := range markers {
		b.AddAnnotation(m)
	}
}

// Focus recenters the viewport. Zoom is clamped to the configured range.
func (b *Binding) Focus(position models.Position, zoom int) {
	b.viewport = Viewport{Center: position, Zoom: b.clamp(zoom)}
}

// Highlight clears the previous highlight and activates the annotation named name.
func (b *Binding) Highlight(name models.Name) bool {
	b.ClearHighlight()
	ann, ok := b.byName[name]
	if ok {
		ann.Active = true
	}

	return ok
}

// ClearHighlight deactivates every annotation.
func (b *Binding) ClearHighlight() {
	for _, ann := range b.layer {
		ann.Active = false
	}
}

// Bounds returns the smallest box holding every drawn annotation.
// The second result is false when the layer is empty.
func (b *Binding) Bounds() (maps.LatLngBounds, bool) {
	var env geom.Envelope
	for _, ann := range b.layer {
		next, err := env.ExtendToIncludeXY(geom.XY{X: ann.Position.Lng, Y: ann.Position.Lat})
		if err != nil {
			b.log.Warn("annotation left out of bounds",
				slog.String("name", string(ann.Label)), slog.Any("error", err))
			continue
		}
		env = next
	}

	minXY, maxXY, ok := env.MinMaxXYs()
	if !ok {
		return maps.LatLngBounds{}, false
	}

	return maps.LatLngBounds{
		NorthEast: maps.LatLng{Lat: maxXY.Y, Lng: maxXY.X},
		SouthWest: maps.LatLng{Lat: minXY.Y, Lng: minXY.X},
	}, true
}

// Annotations returns a snapshot of the drawn layer in drawing order.
func (b *Binding) Annotations() []Annotation {
	out := make([]Annotation, len(b.layer))
	for i, ann := range b.layer {
		out[i] = *ann
	}

	return out
}

func (b *Binding) Viewport() Viewport {
	return b.viewport
}

// Len returns the number of drawn annotations, orphans included.
func (b *Binding) Len() int {
	return len(b.layer)
}

func (b *Binding) clamp(zoom int) int {
	return min(max(zoom, b.minZoom), b.maxZoom)
}
