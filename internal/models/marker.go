package models

import "googlemaps.github.io/maps"

// Position is a geographic coordinate pair in the map widget's native encoding.
// It serializes as {"lat": <number>, "lng": <number>}.
type Position = maps.LatLng

// Marker represents a named point annotation placed on the map.
type Marker struct {
	Name     Name     `json:"name"`   // Name is a digit string, unique within a collection.
	Position Position `json:"latlng"` // Position is where the marker sits on the map.
}
