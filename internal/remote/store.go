// Package remote reads and writes the marker document kept under an access code.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Store is a remote marker document store. Save replaces the whole document.
type Store interface {
	Load(ctx context.Context, code string) ([]models.Marker, error)
	Save(ctx context.Context, code string, markers []models.Marker) error
}

// Pinger is implemented by stores that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Common errors for remote stores.
var (
	// ErrNetwork is returned for every failed round trip to the remote store.
	ErrNetwork = errors.New("remote store request failed")
	// ErrMalformedDocument is returned when the stored document is not a marker collection.
	ErrMalformedDocument = fmt.Errorf("%w: malformed marker document", ErrNetwork)
)

// Ping checks the store when it supports it and succeeds otherwise.
func Ping(ctx context.Context, store Store) error {
	if p, ok := store.(Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}

// decodeDocument parses a stored marker document. A null or empty document is an
// empty collection. Arrays keep their order and skip null holes; objects keep their
// values in document order and discard the keys.
func decodeDocument(r io.Reader) ([]models.Marker, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return []models.Marker{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	markers := []models.Marker{}
	switch tok {
	case nil:
		return markers, nil
	case json.Delim('['):
		for dec.More() {
			if markers, err = decodeEntry(dec, markers); err != nil {
				return nil, err
			}
		}
	case json.Delim('{'):
		for dec.More() {
			if _, err = dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
			}
			if markers, err = decodeEntry(dec, markers); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: unexpected %v", ErrMalformedDocument, tok)
	}

	return markers, nil
}

func decodeEntry(dec *json.Decoder, markers []models.Marker) ([]models.Marker, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if bytes.Equal(raw, []byte("null")) {
		return markers, nil
	}

	var marker models.Marker
	if err := json.Unmarshal(raw, &marker); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	return append(markers, marker), nil
}

// encodeDocument renders markers as the array document written by Save.
func encodeDocument(markers []models.Marker) ([]byte, error) {
	if markers == nil {
		markers = []models.Marker{}
	}

	return json.Marshal(markers)
}
