package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipbench/internal/counters"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, runs)

	run := Run{
		CreatedAt: time.Now().Add(-time.Hour),
		Kinds:     []string{"instructions", "peak_memory"},
		Rows: []Row{
			{Label: "sum", ElapsedNs: 1200, Measurements: []counters.Value{counters.Number(9000), counters.Number(4096)}},
			{Label: "sum-positive", ElapsedNs: 3400, Measurements: []counters.Value{{}, counters.Number(4096)}},
		},
	}
	require.NoError(t, s.Save(run))

	loaded, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, run.Kinds, got.Kinds)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "sum", got.Rows[0].Label)
	assert.Equal(t, int64(1200), got.Rows[0].ElapsedNs)
	assert.Equal(t, counters.Number(9000), got.Rows[0].Measurements[0])
	// Invalid values survive storage as invalid.
	assert.False(t, got.Rows[1].Measurements[0].Valid)
}

func TestSQLiteStoreLoadLatest(t *testing.T) {
	s := newTestStore(t)

	latest, err := s.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, s.Save(Run{Rows: []Row{{Label: "first", ElapsedNs: 100}}}))
	require.NoError(t, s.Save(Run{Rows: []Row{{Label: "second", ElapsedNs: 200}}}))

	latest, err = s.LoadLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Len(t, latest.Rows, 1)
	assert.Equal(t, "second", latest.Rows[0].Label)
}

func TestFactoryDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	s, err := New(Config{Type: "", DSN: path})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := New(Config{Type: "mongodb"})
	assert.ErrorContains(t, err, "unsupported store type")
}

func TestFactoryRequiresPostgresDSN(t *testing.T) {
	_, err := New(Config{Type: "postgres"})
	assert.ErrorContains(t, err, "connection string is required")
}
