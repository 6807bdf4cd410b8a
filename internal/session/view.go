package session

import (
	"github.com/UnknownOlympus/waypoint/internal/listview"
	"github.com/UnknownOlympus/waypoint/internal/mapview"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"googlemaps.github.io/maps"
)

// State is the authentication state of the session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// View is everything the browser needs to draw the page.
type View struct {
	State           State                `json:"state"`
	Code            string               `json:"code,omitempty"`
	ControlsEnabled bool                 `json:"controlsEnabled"`
	SearchQuery     string               `json:"searchQuery"`
	SortOrder       models.SortOrder     `json:"sortOrder,omitempty"`
	Markers         int                  `json:"markers"`
	Dropped         int                  `json:"dropped"`
	Rows            []listview.Row       `json:"rows"`
	Annotations     []mapview.Annotation `json:"annotations"`
	Viewport        mapview.Viewport     `json:"viewport"`
	Bounds          *maps.LatLngBounds   `json:"bounds,omitempty"`
}

// Result is the outcome of one command.
type Result struct {
	View  View   `json:"view"`
	Alert *Alert `json:"alert,omitempty"`
	Err   error  `json:"-"`
}
