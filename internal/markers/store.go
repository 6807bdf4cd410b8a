// Package markers holds the authoritative in-memory marker collection of a session.
package markers

import (
	"fmt"
	"slices"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Comparator orders two markers, returning a negative number when a sorts first.
type Comparator func(a, b models.Marker) int

// Predicate selects markers for Filter.
type Predicate func(m models.Marker) bool

// Ascending orders markers by increasing numeric name.
func Ascending(a, b models.Marker) int {
	return models.Compare(a.Name, b.Name)
}

// Descending orders markers by decreasing numeric name.
func Descending(a, b models.Marker) int {
	return models.Compare(b.Name, a.Name)
}

// ComparatorFor returns the standing comparator for a sort order.
func ComparatorFor(order models.SortOrder) Comparator {
	if order == models.SortDescending {
		return Descending
	}
	return Ascending
}

// NameContains selects markers whose name contains query. An empty query selects everything.
func NameContains(query string) Predicate {
	return func(m models.Marker) bool {
		return m.Name.Contains(query)
	}
}

// Store is an ordered marker collection with unique names.
// It is not safe for concurrent use; the session event loop owns it.
type Store struct {
	items []models.Marker
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// ReplaceAll overwrites the whole collection. The caller guarantees unique names
// (see Ingest for untrusted input).
func (s *Store) ReplaceAll(collection []models.Marker) {
	s.items = slices.Clone(collection)
}

// Add appends a marker unless its name is already taken.
func (s *Store) Add(marker models.Marker) error {
	if _, ok := s.Find(marker.Name); ok {
		return fmt.Errorf("%w: %s", models.ErrDuplicateName, marker.Name)
	}
	s.items = append(s.items, marker)

	return nil
}

// Remove deletes the marker with the given name and reports whether one was found.
func (s *Store) Remove(name models.Name) bool {
	idx := s.index(name)
	if idx < 0 {
		return false
	}
	s.items = slices.Delete(s.items, idx, idx+1)

	return true
}

// Find returns the marker with the given name.
func (s *Store) Find(name models.Name) (models.Marker, bool) {
	idx := s.index(name)
	if idx < 0 {
		return models.Marker{}, false
	}

	return s.items[idx], true
}

// Filter returns, in order, the markers matching pred. The store is not modified.
func (s *Store) Filter(pred Predicate) []models.Marker {
	out := make([]models.Marker, 0, len(s.items))
	for _, m := range s.items {
		if pred(m) {
			out = append(out, m)
		}
	}

	return out
}

// Sort reorders the collection in place. Markers that compare equal keep their relative order.
func (s *Store) Sort(cmp Comparator) {
	slices.SortStableFunc(s.items, cmp)
}

// All returns a copy of the collection in its current order.
func (s *Store) All() []models.Marker {
	return slices.Clone(s.items)
}

// Len returns the number of markers.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) index(name models.Name) int {
	return slices.IndexFunc(s.items, func(m models.Marker) bool {
		return m.Name == name
	})
}

// Names returns the marker names in collection order.
func (s *Store) Names() []models.Name {
	out := make([]models.Name, len(s.items))
	for i, m := range s.items {
		out[i] = m.Name
	}

	return out
}
