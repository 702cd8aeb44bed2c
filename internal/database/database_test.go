package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func newTestRun(t *testing.T, repo *Repository) Run {
	t.Helper()
	run := Run{ID: NewRunID(), Name: "test run", Status: "running"}
	require.NoError(t, repo.CreateRun(&run))
	return run
}

func TestCreateAndGetRun(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	got, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.Name, got.Name)
	require.Equal(t, "running", got.Status)
}

func TestListRunsOrdersMostRecentFirst(t *testing.T) {
	repo := newTestRepository(t)
	newTestRun(t, repo)
	newTestRun(t, repo)

	runs, err := repo.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestFinishRunUpdatesStatusAndCosts(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	require.NoError(t, repo.FinishRun(run.ID, "completed", 200, 150))

	got, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
	require.Equal(t, 200.0, got.InitialCost)
	require.Equal(t, 150.0, got.BestCost)
	require.NotNil(t, got.EndTime)
}

func TestBatchSaveAndGetIterationRecords(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	recs := []IterationRecord{
		{RunID: run.ID, Iteration: 0, DestroyOperator: "random", RepairOperator: "greedy", Objective: 100, Outcome: "best"},
		{RunID: run.ID, Iteration: 1, DestroyOperator: "worst", RepairOperator: "random", Objective: 90, Outcome: "best"},
	}
	require.NoError(t, repo.BatchSaveIterationRecords(recs))

	got, err := repo.GetIterationRecords(run.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 0, got[0].Iteration)
	require.Equal(t, 1, got[1].Iteration)

	limited, err := repo.GetIterationRecords(run.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestBatchSaveIterationRecordsNoopOnEmpty(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.BatchSaveIterationRecords(nil))
}

func TestBatchSaveAndGetRouteRecords(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	recs := []RouteRecord{
		{RunID: run.ID, OrderID: 1, LegCapacityIDs: "0", Aantal: 2, Prijs: 200},
		{RunID: run.ID, OrderID: 2, LegCapacityIDs: "1,2", Aantal: 1, Prijs: 50},
	}
	require.NoError(t, repo.BatchSaveRouteRecords(recs))

	all, err := repo.GetRouteRecords(run.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := repo.GetRouteRecords(run.ID, 1)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, 1, scoped[0].OrderID)
}

func TestBatchSaveAndGetLegUsageRecords(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	recs := []LegUsageRecord{
		{RunID: run.ID, LegCapacityID: 0, Van: "Antwerpen", Naar: "Rotterdam", Aantal: 5, Gebruikt: 2},
	}
	require.NoError(t, repo.BatchSaveLegUsageRecords(recs))

	got, err := repo.GetLegUsageRecords(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Antwerpen", got[0].Van)
}

func TestGetRunSummaryAggregatesStatistics(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	require.NoError(t, repo.BatchSaveIterationRecords([]IterationRecord{
		{RunID: run.ID, Iteration: 0, Outcome: "best"},
		{RunID: run.ID, Iteration: 1, Outcome: "rejected"},
	}))
	require.NoError(t, repo.SaveRouteRecord(&RouteRecord{RunID: run.ID, OrderID: 1}))

	summary, err := repo.GetRunSummary(run.ID)
	require.NoError(t, err)
	require.Contains(t, summary, "run")
	require.Contains(t, summary, "statistics")
}

func TestDeleteRunRemovesRelatedRecords(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)
	require.NoError(t, repo.SaveIterationRecord(&IterationRecord{RunID: run.ID, Iteration: 0}))
	require.NoError(t, repo.SaveRouteRecord(&RouteRecord{RunID: run.ID, OrderID: 1}))

	require.NoError(t, repo.DeleteRun(run.ID))

	_, err := repo.GetRun(run.ID)
	require.Error(t, err)

	recs, err := repo.GetIterationRecords(run.ID, 0)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestUpdateRunMetadata(t *testing.T) {
	repo := newTestRepository(t)
	run := newTestRun(t, repo)

	require.NoError(t, repo.UpdateRunMetadata(run.ID, "renamed", "new description"))

	got, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, "new description", got.Description)
}
