package models

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// Name is a marker name: a non-empty sequence of decimal digits.
// Names order numerically and match by substring.
type Name string

// ErrValidation is the parent of every user input error.
var ErrValidation = errors.New("validation failed")

// Validation errors returned for marker names.
var (
	ErrInvalidName   = fmt.Errorf("%w: marker name must contain digits only", ErrValidation)
	ErrDuplicateName = fmt.Errorf("%w: marker with this name already exists", ErrValidation)
)

// ParseName validates raw user input as a marker name.
// Input is not trimmed: " 12" is rejected like any other non-digit string.
func ParseName(raw string) (Name, error) {
	if raw == "" {
		return "", ErrInvalidName
	}
	for i := range len(raw) {
		if raw[i] < '0' || raw[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
		}
	}

	return Name(raw), nil
}

// Valid reports whether n satisfies the digit-string invariant.
func (n Name) Valid() bool {
	_, err := ParseName(string(n))
	return err == nil
}

// Contains reports whether sub occurs anywhere in the name.
// Search and highlight both use this, so "2" matches "2", "20" and "12".
func (n Name) Contains(sub string) bool {
	return strings.Contains(string(n), sub)
}

// Compare orders two names by their numeric value.
// Leading zeros are ignored, so "007" and "7" compare equal.
func Compare(a, b Name) int {
	x := strings.TrimLeft(string(a), "0")
	y := strings.TrimLeft(string(b), "0")
	if len(x) != len(y) {
		return cmp.Compare(len(x), len(y))
	}

	return strings.Compare(x, y)
}
