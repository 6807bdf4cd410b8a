package remote

import (
	"strings"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument(t *testing.T) {
	seven := models.Marker{Name: "7", Position: models.Position{Lat: 1, Lng: 2}}
	eight := models.Marker{Name: "8", Position: models.Position{Lat: 3, Lng: 4}}

	tests := []struct {
		name    string
		body    string
		want    []models.Marker
		wantErr bool
	}{
		{name: "empty body", body: "", want: []models.Marker{}},
		{name: "null document", body: "null", want: []models.Marker{}},
		{name: "empty array", body: "[]", want: []models.Marker{}},
		{
			name: "array keeps order",
			body: `[{"name":"7","latlng":{"lat":1,"lng":2}},{"name":"8","latlng":{"lat":3,"lng":4}}]`,
			want: []models.Marker{seven, eight},
		},
		{
			name: "array skips null holes",
			body: `[null,{"name":"7","latlng":{"lat":1,"lng":2}},null]`,
			want: []models.Marker{seven},
		},
		{
			name: "object keeps values in document order",
			body: `{"-Nz":{"name":"8","latlng":{"lat":3,"lng":4}},"-Na":{"name":"7","latlng":{"lat":1,"lng":2}}}`,
			want: []models.Marker{eight, seven},
		},
		{
			name: "invalid names are passed through",
			body: `[{"name":"abc","latlng":{"lat":0,"lng":0}}]`,
			want: []models.Marker{{Name: "abc"}},
		},
		{name: "scalar document", body: `"markers"`, wantErr: true},
		{name: "truncated", body: `[{"name":"7"`, wantErr: true},
		{name: "entry of wrong type", body: `[42]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDocument(strings.NewReader(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedDocument)
				require.ErrorIs(t, err, ErrNetwork)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDocument(t *testing.T) {
	t.Run("nil collection is an empty array", func(t *testing.T) {
		data, err := encodeDocument(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("wire shape", func(t *testing.T) {
		data, err := encodeDocument([]models.Marker{{Name: "5", Position: models.Position{Lat: 1.5, Lng: -2}}})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"5","latlng":{"lat":1.5,"lng":-2}}]`, string(data))
	})
}
