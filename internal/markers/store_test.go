package markers_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/markers"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(name string, lat, lng float64) models.Marker {
	return models.Marker{Name: models.Name(name), Position: models.Position{Lat: lat, Lng: lng}}
}

func names(ms []models.Marker) []models.Name {
	out := make([]models.Name, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func TestStore_Add(t *testing.T) {
	t.Run("appends new names in arrival order", func(t *testing.T) {
		store := markers.New()

		require.NoError(t, store.Add(marker("5", 1, 1)))
		require.NoError(t, store.Add(marker("3", 2, 2)))

		assert.Equal(t, []models.Name{"5", "3"}, names(store.All()))
	})

	t.Run("duplicate name leaves collection unchanged", func(t *testing.T) {
		store := markers.New()
		require.NoError(t, store.Add(marker("5", 1, 1)))

		err := store.Add(marker("5", 9, 9))

		require.ErrorIs(t, err, models.ErrDuplicateName)
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Equal(t, 1, store.Len())
		got, ok := store.Find("5")
		require.True(t, ok)
		assert.InDelta(t, 1.0, got.Position.Lat, 1e-9)
	})
}

func TestStore_Remove(t *testing.T) {
	store := markers.New()
	store.ReplaceAll([]models.Marker{marker("1", 0, 0), marker("2", 0, 0), marker("3", 0, 0)})

	assert.True(t, store.Remove("2"))
	assert.Equal(t, []models.Name{"1", "3"}, names(store.All()))

	assert.False(t, store.Remove("42"))
	assert.Equal(t, 2, store.Len())
}

func TestStore_Find(t *testing.T) {
	store := markers.New()
	store.ReplaceAll([]models.Marker{marker("10", 3, 4)})

	got, ok := store.Find("10")
	require.True(t, ok)
	assert.Equal(t, marker("10", 3, 4), got)

	_, ok = store.Find("1")
	assert.False(t, ok)
}

func TestStore_ReplaceAllCopiesInput(t *testing.T) {
	input := []models.Marker{marker("1", 0, 0)}
	store := markers.New()
	store.ReplaceAll(input)

	input[0].Name = "999"

	_, ok := store.Find("1")
	assert.True(t, ok)
}

func TestStore_Filter(t *testing.T) {
	collection := []models.Marker{marker("2", 0, 0), marker("20", 0, 0), marker("12", 0, 0), marker("3", 0, 0)}
	store := markers.New()
	store.ReplaceAll(collection)

	t.Run("empty query returns everything in order", func(t *testing.T) {
		assert.Equal(t, collection, store.Filter(markers.NameContains("")))
	})

	t.Run("substring match", func(t *testing.T) {
		assert.Equal(t, []models.Name{"2", "20", "12"}, names(store.Filter(markers.NameContains("2"))))
	})

	t.Run("filter is non destructive", func(t *testing.T) {
		_ = store.Filter(markers.NameContains("nothing"))
		assert.Equal(t, 4, store.Len())
	})
}

func TestStore_Sort(t *testing.T) {
	t.Run("numeric not lexicographic", func(t *testing.T) {
		store := markers.New()
		store.ReplaceAll([]models.Marker{marker("10", 0, 0), marker("9", 0, 0), marker("100", 0, 0), marker("1", 0, 0)})

		store.Sort(markers.Ascending)
		assert.Equal(t, []models.Name{"1", "9", "10", "100"}, names(store.All()))

		store.Sort(markers.Descending)
		assert.Equal(t, []models.Name{"100", "10", "9", "1"}, names(store.All()))
	})

	t.Run("ascending then descending reverses distinct names", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		seen := map[int]bool{}
		var collection []models.Marker
		for len(collection) < 50 {
			n := rng.IntN(10000)
			if seen[n] {
				continue
			}
			seen[n] = true
			collection = append(collection, marker(strconv.Itoa(n), 0, 0))
		}

		store := markers.New()
		store.ReplaceAll(collection)

		store.Sort(markers.Ascending)
		asc := names(store.All())
		store.Sort(markers.Descending)
		desc := names(store.All())

		slices.Reverse(asc)
		assert.Equal(t, asc, desc)
	})

	t.Run("equal values keep arrival order", func(t *testing.T) {
		store := markers.New()
		store.ReplaceAll([]models.Marker{marker("07", 0, 0), marker("3", 0, 0), marker("7", 0, 0)})

		store.Sort(markers.ComparatorFor(models.SortAscending))

		assert.Equal(t, []models.Name{"3", "07", "7"}, names(store.All()))
	})
}

func TestStore_UniqueNamesUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	store := markers.New()

	for range 2000 {
		name := strconv.Itoa(rng.IntN(30))
		if rng.IntN(3) == 0 {
			store.Remove(models.Name(name))
		} else {
			_ = store.Add(marker(name, 0, 0))
		}

		seen := map[models.Name]bool{}
		for _, m := range store.All() {
			require.False(t, seen[m.Name], "duplicate name %s", m.Name)
			seen[m.Name] = true
		}
	}
}

func TestIngest(t *testing.T) {
	loaded := []models.Marker{
		marker("7", 1, 2),
		marker("abc", 0, 0),
		marker("7", 5, 5),
		marker("", 0, 0),
		marker("8", 3, 4),
	}

	kept, rejected := markers.Ingest(loaded)

	assert.Equal(t, []models.Marker{marker("7", 1, 2), marker("8", 3, 4)}, kept)
	require.Len(t, rejected, 3)
	assert.Equal(t, models.Name("abc"), rejected[0].Name)
	require.ErrorIs(t, rejected[0].Reason, models.ErrInvalidName)
	assert.Equal(t, models.Name("7"), rejected[1].Name)
	require.ErrorIs(t, rejected[1].Reason, models.ErrDuplicateName)
	require.ErrorIs(t, rejected[2].Reason, models.ErrInvalidName)
}
