package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var logged = time.Date(2026, 5, 4, 6, 45, 0, 0, time.UTC)

func TestSQLite_LoadMissing(t *testing.T) {
	s := newTestDB(t)
	_, err := s.Load(context.Background(), 1)
	assert.ErrorIs(t, err, coach.ErrStateNotFound)
}

func TestSQLite_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, len(sqliteMigrations), n)
}

func TestSQLite_SaveAndLoadSetup(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	st := coach.NewState(coach.DefaultProfile().WithAge(44))
	require.NoError(t, s.Save(ctx, 1, st.Document()))

	snap, err := s.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, st.Document(), snap.Document)
	assert.Empty(t, snap.Weights)
}

// A Coach driven against SQLite comes back identical after a reload.
func TestSQLite_CoachRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	c := coach.New(1, s, coach.DefaultProfile(), coach.WithClock(func() time.Time { return logged }))
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.AddWeight(ctx, 90.2)
	require.NoError(t, err)
	_, err = c.AddCalories(ctx, 2300)
	require.NoError(t, err)
	_, err = c.CompleteWeek(ctx)
	require.NoError(t, err)
	w, err := c.AddWeight(ctx, 89.7)
	require.NoError(t, err)
	extra, err := c.AddWeight(ctx, 120)
	require.NoError(t, err)
	require.NoError(t, c.RemoveEntry(ctx, coach.WeightEntry, extra.ID))

	reloaded, err := coach.Load(ctx, 1, s)
	require.NoError(t, err)
	assert.Equal(t, c.State().Snapshot(), reloaded.State().Snapshot())

	sum, ok := reloaded.State().CurrentWeek()
	require.True(t, ok)
	require.Len(t, sum.Weights, 1)
	assert.Equal(t, w.ID, sum.Weights[0].ID)
	assert.Equal(t, logged, sum.Weights[0].Timestamp)
}

// Entries of a finished cycle are not loaded into the next one.
func TestSQLite_EntriesScopedByCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	c := coach.New(1, s, coach.DefaultProfile(), coach.WithClock(func() time.Time { return logged }))
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.AddWeight(ctx, 90)
	require.NoError(t, err)
	_, err = c.CompleteWeek(ctx)
	require.NoError(t, err)
	rec, err := c.CompleteCycle(ctx)
	require.NoError(t, err)
	_, err = c.Start(ctx)
	require.NoError(t, err)

	reloaded, err := coach.Load(ctx, 1, s)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.State().Cycle)
	sum, _ := reloaded.State().CurrentWeek()
	assert.Empty(t, sum.Weights)

	cycles, err := s.ListCycles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, rec, cycles[0])
}

func TestSQLite_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	require.NoError(t, s.Save(ctx, 1, coach.NewState(coach.DefaultProfile()).Document()))
	_, err := s.Load(ctx, 2)
	assert.ErrorIs(t, err, coach.ErrStateNotFound)

	cycles, err := s.ListCycles(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, cycles)
}
