// Package listview models the marker list panel shown next to the map.
package listview

import "github.com/UnknownOlympus/waypoint/internal/models"

// Action types posted back by the browser when a row control is used.
const (
	ActionDelete = "deleteMarker"
	ActionSelect = "selectRow"
)

// Action is a ready-made command payload for a row control.
type Action struct {
	Type string      `json:"type"`
	Name models.Name `json:"name"`
}

// Row is one rendered list entry.
type Row struct {
	Label    models.Name     `json:"label"`
	Position models.Position `json:"latlng"`
	Active   bool            `json:"active"`
	Delete   Action          `json:"onDelete"`
	Select   Action          `json:"onSelect"`
}

// List holds the rows currently rendered.
type List struct {
	rows []Row
}

func New() *List {
	return &List{}
}

// Render replaces every row with one per marker, in the given order.
func (l *List) Render(markers []models.Marker) {
	rows := make([]Row, len(markers))
	for i, m := range markers {
		rows[i] = Row{
			Label:    m.Name,
			Position: m.Position,
			Delete:   Action{Type: ActionDelete, Name: m.Name},
			Select:   Action{Type: ActionSelect, Name: m.Name},
		}
	}
	l.rows = rows
}

// Highlight clears all rows, then activates every row whose label contains name.
// Matching is by substring, so "2" also activates "20" and "12".
func (l *List) Highlight(name models.Name) int {
	matched := 0
	for i := range l.rows {
		l.rows[i].Active = l.rows[i].Label.Contains(string(name))
		if l.rows[i].Active {
			matched++
		}
	}

	return matched
}

// Rows returns a copy of the rendered rows.
func (l *List) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)

	return out
}

func (l *List) Len() int {
	return len(l.rows)
}
