package storage

import (
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingIndexMetrics/internal/finance"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite("file:" + filepath.Join(t.TempDir(), "runs.db") + "?_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return NewStore(db)
}

func TestStore_SaveAndFetchRun(t *testing.T) {
	store := newTestStore(t)
	run := Run{
		ID:        NewRunID(),
		CreatedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Rows: []finance.ResultRow{
			{Name: "Boston", OneYear: 0.04, FiveYear: 0.05, TenYear: 0.06, LongTerm: 0.05, LongTermYears: 30,
				Beta: 0.9, ExcessReturn: 0.02, Volatility: 0.05, Sharpe: 0.4},
			{Name: "Austin", OneYear: 0.01, FiveYear: 0.02, TenYear: 0.03, LongTerm: 0.04, LongTermYears: 23,
				Beta: math.NaN(), ExcessReturn: 0.03, Volatility: 0, Sharpe: math.NaN()},
		},
	}
	require.NoError(t, store.SaveRun(run))

	got, err := store.FetchRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Rows, 2)

	// position order is preserved, not name order
	assert.Equal(t, run.Rows[0], got.Rows[0])
	austin := got.Rows[1]
	assert.Equal(t, "Austin", austin.Name)
	assert.Equal(t, 23, austin.LongTermYears)
	assert.True(t, math.IsNaN(austin.Beta))
	assert.True(t, math.IsNaN(austin.Sharpe))
	assert.Equal(t, 0.0, austin.Volatility)
}

func TestStore_FetchUnknownRun(t *testing.T) {
	store := newTestStore(t)
	_, err := store.FetchRun("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStore_DuplicateRunRollsBack(t *testing.T) {
	store := newTestStore(t)
	run := Run{ID: "r1", CreatedAt: time.Unix(100, 0), Rows: []finance.ResultRow{{Name: "a"}}}
	require.NoError(t, store.SaveRun(run))
	assert.Error(t, store.SaveRun(run))

	got, err := store.FetchRun("r1")
	require.NoError(t, err)
	assert.Len(t, got.Rows, 1)
}

func TestStore_ListRuns(t *testing.T) {
	store := newTestStore(t)
	for i, id := range []string{"old", "mid", "new"} {
		rows := make([]finance.ResultRow, i+1)
		require.NoError(t, store.SaveRun(Run{ID: id, CreatedAt: time.Unix(int64(1000*(i+1)), 0), Rows: rows}))
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, 3, runs[0].Series)
	assert.Equal(t, "mid", runs[1].ID)
	assert.Equal(t, time.Unix(2000, 0).UTC(), runs[1].CreatedAt)
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
