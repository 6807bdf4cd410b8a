package markers

import "github.com/UnknownOlympus/waypoint/internal/models"

// Rejection describes a loaded marker that Ingest dropped.
type Rejection struct {
	Name   models.Name
	Reason error
}

// Ingest applies the local Add invariants to a collection from an untrusted source.
// Markers with non-digit names and repeated names are dropped; the first occurrence
// of a name wins and the order of the survivors is preserved.
func Ingest(collection []models.Marker) ([]models.Marker, []Rejection) {
	kept := make([]models.Marker, 0, len(collection))
	seen := make(map[models.Name]struct{}, len(collection))

	var rejected []Rejection
	for _, m := range collection {
		if !m.Name.Valid() {
			rejected = append(rejected, Rejection{Name: m.Name, Reason: models.ErrInvalidName})
			continue
		}
		if _, dup := seen[m.Name]; dup {
			rejected = append(rejected, Rejection{Name: m.Name, Reason: models.ErrDuplicateName})
			continue
		}
		seen[m.Name] = struct{}{}
		kept = append(kept, m)
	}

	return kept, rejected
}
