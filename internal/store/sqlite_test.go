package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndFinishRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "lights.asc", "counties.geojson")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "lights.asc", run.Raster)
	assert.False(t, run.StartedAt.IsZero())

	require.NoError(t, s.FinishRun(ctx, run.ID, 42))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 42, runs[0].Regions)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestFinishRun_Unknown(t *testing.T) {
	s := newTestStore(t)
	err := s.FinishRun(context.Background(), "no-such-run", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInsertResult_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "lights.asc", "counties.geojson")
	require.NoError(t, err)

	r := Result{
		RunID:     run.ID,
		StateFIPS: "36",
		Region:    "New York",
		Stats:     zonal.Stats{Min: 1, Max: 63, Mean: 41.5, StdDev: 12.2, Count: 1600},
	}
	require.NoError(t, s.InsertResult(ctx, r))

	// Re-inserting the same key overwrites rather than erroring.
	r.Stats.Mean = 42.0
	require.NoError(t, s.InsertResult(ctx, r))

	results, err := s.ResultsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 42.0, results[0].Stats.Mean)
	assert.Equal(t, 1600, results[0].Stats.Count)
	assert.Empty(t, results[0].Err)
}

func TestResultsForRun_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "lights.asc", "counties.geojson")
	require.NoError(t, err)

	for _, pair := range [][2]string{
		{"48", "Travis"},
		{"06", "Kings"},
		{"36", "Kings"},
		{"06", "Alameda"},
	} {
		require.NoError(t, s.InsertResult(ctx, Result{
			RunID: run.ID, StateFIPS: pair[0], Region: pair[1],
		}))
	}

	results, err := s.ResultsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "Alameda", results[0].Region)
	assert.Equal(t, "Kings", results[1].Region)
	assert.Equal(t, "06", results[1].StateFIPS)
	assert.Equal(t, "36", results[2].StateFIPS)
	assert.Equal(t, "48", results[3].StateFIPS)
}

func TestInsertResult_Error(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "lights.asc", "counties.geojson")
	require.NoError(t, err)

	require.NoError(t, s.InsertResult(ctx, Result{
		RunID: run.ID, StateFIPS: "36", Region: "Hamilton",
		Err: "zonal: degenerate pixel window",
	}))

	results, err := s.ResultsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "zonal: degenerate pixel window", results[0].Err)
	assert.Zero(t, results[0].Stats.Count)
}

func TestListRuns_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.CreateRun(ctx, "lights.asc", "counties.geojson")
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}
