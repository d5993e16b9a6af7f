package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

func tempRepo(t *testing.T) RunRepository {
	t.Helper()
	repo, err := NewBadgerRepository(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, repo.Close()) })
	return repo
}

func record(id, date string, revenue float64, created time.Time) *RunRecord {
	return &RunRecord{
		ID:        id,
		Region:    "NSW1",
		Date:      date,
		CreatedAt: created,
		Result: &model.OptimizationResult{
			Optimizer: "dp",
			Revenue:   revenue,
			Cycles:    0.8,
			Operations: []model.Operation{
				{Index: 0, Action: model.ActionCharge, Price: 20, EnergyFromGridMWh: 2},
				{Index: 1, Action: model.ActionDischarge, Price: 90, EnergyToGridMWh: 1.7},
			},
			SoCHistory: []float64{0, 1.8, 0},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	repo := tempRepo(t)
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	rec := record("run_abc", "2024-01-15", 1234.5, created)

	require.NoError(t, repo.SaveRun(rec))

	got, err := repo.GetRun("run_abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Region, got.Region)
	assert.Equal(t, created, got.CreatedAt)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1234.5, got.Result.Revenue)
	require.Len(t, got.Result.Operations, 2)
	assert.Equal(t, model.ActionDischarge, got.Result.Operations[1].Action)
	assert.Equal(t, []float64{0, 1.8, 0}, got.Result.SoCHistory)
}

func TestGetRun_UnknownIDReturnsNil(t *testing.T) {
	repo := tempRepo(t)

	got, err := repo.GetRun("run_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRun_RequiresID(t *testing.T) {
	repo := tempRepo(t)
	assert.Error(t, repo.SaveRun(&RunRecord{}))
	assert.Error(t, repo.SaveRun(nil))
}

func TestListRuns_NewestFirst(t *testing.T) {
	repo := tempRepo(t)
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(record("run_1", "2024-01-13", 100, base.Add(-48*time.Hour))))
	require.NoError(t, repo.SaveRun(record("run_3", "2024-01-15", 300, base)))
	require.NoError(t, repo.SaveRun(record("run_2", "2024-01-14", 200, base.Add(-24*time.Hour))))

	runs, err := repo.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, []string{"run_3", "run_2", "run_1"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	// Summaries carry headline figures but not the trace.
	assert.Equal(t, "dp", runs[0].Optimizer)
	assert.Equal(t, 300.0, runs[0].Revenue)
	assert.Equal(t, 0.8, runs[0].Cycles)
	assert.Equal(t, "2024-01-15", runs[0].Date)
}

func TestDeleteRun(t *testing.T) {
	repo := tempRepo(t)
	require.NoError(t, repo.SaveRun(record("run_del", "2024-01-15", 50, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))))

	require.NoError(t, repo.DeleteRun("run_del"))

	got, err := repo.GetRun("run_del")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, repo.DeleteRun("run_del"), ErrRunNotFound)
}

func TestNewRunID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewRunID()
		assert.True(t, strings.HasPrefix(id, "run_"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
