package models

import "fmt"

// SortOrder selects one of the two standing marker orderings.
type SortOrder string

const (
	// SortAscending orders markers by increasing numeric name.
	SortAscending SortOrder = "asc"
	// SortDescending orders markers by decreasing numeric name.
	SortDescending SortOrder = "desc"
)

// ErrInvalidSortOrder is returned for anything other than "asc" or "desc".
var ErrInvalidSortOrder = fmt.Errorf("%w: unknown sort order", ErrValidation)

// ParseSortOrder converts user input into a SortOrder.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(raw) {
	case SortAscending, SortDescending:
		return SortOrder(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
	}
}
