package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testQuery() visibility.Query {
	return visibility.Query{
		Observer:             visibility.Observer{LatitudeDeg: 40.7128, LongitudeDeg: -74.0060},
		Start:                time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Window:               time.Hour,
		AltitudeThresholdDeg: 10,
		MinPeakElevationDeg:  30,
		MinHeightKm:          200,
		MaxHeightKm:          2000,
		MinDuration:          30 * time.Second,
	}
}

func TestKeyDeterministic(t *testing.T) {
	q := testQuery()
	assert.Equal(t, Key(q, 1), Key(q, 1))
}

func TestKeyVariesWithInputs(t *testing.T) {
	q := testQuery()
	base := Key(q, 1)

	// A catalog refresh bumps the generation and must miss.
	assert.NotEqual(t, base, Key(q, 2))

	moved := q
	moved.Observer.LatitudeDeg = 51.5
	assert.NotEqual(t, base, Key(moved, 1))

	later := q
	later.Start = q.Start.Add(time.Minute)
	assert.NotEqual(t, base, Key(later, 1))

	inclusive := q
	inclusive.IncludeStarlink = true
	assert.NotEqual(t, base, Key(inclusive, 1))
}

func TestGetPut(t *testing.T) {
	c, err := New(4, testLogger())
	require.NoError(t, err)

	key := Key(testQuery(), 1)
	_, ok := c.Get(key)
	assert.False(t, ok)

	passes := []visibility.Pass{{Name: "ISS (ZARYA)", NORADID: 25544}}
	c.Put(key, passes)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, passes, got)
}

func TestEmptyResultIsCacheable(t *testing.T) {
	// Zero passes is a valid answer and must not be confused with a miss.
	c, err := New(4, testLogger())
	require.NoError(t, err)

	key := Key(testQuery(), 1)
	c.Put(key, []visibility.Pass{})
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestLRUEviction(t *testing.T) {
	c, err := New(2, testLogger())
	require.NoError(t, err)

	q := testQuery()
	k1, k2, k3 := Key(q, 1), Key(q, 2), Key(q, 3)
	c.Put(k1, nil)
	c.Put(k2, nil)
	c.Put(k3, nil)

	_, ok := c.Get(k1)
	assert.False(t, ok, "oldest entry should be evicted")
	assert.Equal(t, 2, c.Len())
}

func TestPurge(t *testing.T) {
	c, err := New(4, testLogger())
	require.NoError(t, err)
	c.Put(Key(testQuery(), 1), nil)
	require.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestDefaultSize(t *testing.T) {
	c, err := New(0, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
