package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
)

func TestRaceRepository_CloneIsolation(t *testing.T) {
	t.Parallel()

	repo := NewRaceRepository(race.Race{
		ID:       "race-1",
		Name:     "Sakhir Grand Prix",
		Location: "Sakhir",
		StartsAt: time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC),
		Status:   race.StatusUpcoming,
	})

	item, found, err := repo.GetByID(context.Background(), "race-1")
	require.NoError(t, err)
	require.True(t, found)

	flag := true
	item.HadRedFlag = &flag
	item.Status = race.StatusRaceCompleted

	stored, found, err := repo.GetByID(context.Background(), "race-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, stored.HadRedFlag, "mutating a returned race must not touch the stored copy")
	assert.Equal(t, race.StatusUpcoming, stored.Status)
}

func TestRaceRepository_UpdateUnknownRace(t *testing.T) {
	t.Parallel()

	repo := NewRaceRepository()
	err := repo.Update(context.Background(), race.Race{ID: "ghost"})
	require.Error(t, err)
}

func TestPredictionRepository_UpsertReplaces(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()

	first := prediction.Prediction{
		ID:              "pred-1",
		UserID:          "user-a",
		RaceID:          "race-1",
		QualifyingOrder: []string{"d1", "d2", "d3"},
		RaceOrder:       []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9", "d10"},
		TeamPicks:       prediction.TeamPicks{Best: "t1", Second: "t2"},
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := first
	second.RedFlag = true
	second.TeamPicks = prediction.TeamPicks{Best: "t2", Second: "t1"}
	require.NoError(t, repo.Upsert(ctx, second))

	got, found, err := repo.GetByUserAndRace(ctx, "user-a", "race-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.RedFlag)
	assert.Equal(t, "t2", got.TeamPicks.Best)

	byRace, err := repo.ListByRace(ctx, "race-1")
	require.NoError(t, err)
	assert.Len(t, byRace, 1, "upsert for the same user and race must replace, not append")
}

func TestPredictionRepository_DistinctRacesDoNotCollide(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, prediction.Prediction{ID: "p1", UserID: "user-a", RaceID: "race-1"}))
	require.NoError(t, repo.Upsert(ctx, prediction.Prediction{ID: "p2", UserID: "user-a", RaceID: "race-2"}))

	_, found, err := repo.GetByUserAndRace(ctx, "user-a", "race-1")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = repo.GetByUserAndRace(ctx, "user-a", "race-2")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPredictionRepository_ListByRaceOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()

	base := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Upsert(ctx, prediction.Prediction{
			ID:        "pred-" + string(rune('a'+i)),
			UserID:    "user-" + string(rune('a'+i)),
			RaceID:    "race-1",
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	first, err := repo.ListByRace(ctx, "race-1")
	require.NoError(t, err)
	require.Len(t, first, 12)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].UpdatedAt.Before(first[i].UpdatedAt), "rows must come back in submission order")
	}

	for i := 0; i < 50; i++ {
		again, err := repo.ListByRace(ctx, "race-1")
		require.NoError(t, err)
		require.Equal(t, first, again, "repeated listings must yield one ordering")
	}
}

func TestScoreRepository_ListAllOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceByRace(ctx, "race-2", []scoring.Breakdown{
		{RaceID: "race-2", UserID: "user-b"},
		{RaceID: "race-2", UserID: "user-a"},
	}))
	require.NoError(t, repo.ReplaceByRace(ctx, "race-1", []scoring.Breakdown{
		{RaceID: "race-1", UserID: "user-c"},
	}))

	first, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "race-1", first[0].RaceID)
	assert.Equal(t, "user-a", first[1].UserID)
	assert.Equal(t, "user-b", first[2].UserID)

	for i := 0; i < 50; i++ {
		again, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Equal(t, first, again, "repeated listings must yield one ordering")
	}
}

func TestScoreRepository_ReplaceByRace(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceByRace(ctx, "race-1", []scoring.Breakdown{
		{RaceID: "race-1", UserID: "user-a", TotalPoints: 184},
		{RaceID: "race-1", UserID: "user-b", TotalPoints: -32},
	}))

	require.NoError(t, repo.ReplaceByRace(ctx, "race-1", []scoring.Breakdown{
		{RaceID: "race-1", UserID: "user-a", TotalPoints: 204},
	}))

	rows, err := repo.ListByRace(ctx, "race-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 204, rows[0].TotalPoints)

	got, found, err := repo.GetByUserAndRace(ctx, "user-b", "race-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, got.TotalPoints)
}

func TestScoreRepository_ReplaceWithEmptyClearsRace(t *testing.T) {
	t.Parallel()

	repo := NewScoreRepository()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceByRace(ctx, "race-1", []scoring.Breakdown{
		{RaceID: "race-1", UserID: "user-a", TotalPoints: 10},
	}))
	require.NoError(t, repo.ReplaceByRace(ctx, "race-1", nil))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSeedData_Consistency(t *testing.T) {
	t.Parallel()

	teams := SeedTeams()
	drivers := SeedDrivers()
	races := SeedRaces()

	assert.Len(t, teams, 10)
	assert.Len(t, drivers, 20)

	teamIDs := make(map[string]bool, len(teams))
	for _, team := range teams {
		teamIDs[team.ID] = true
	}
	for _, driver := range drivers {
		assert.Truef(t, teamIDs[driver.TeamID], "driver %s references unknown team %s", driver.ID, driver.TeamID)
	}

	for _, item := range races {
		assert.NotEmpty(t, item.ID)
		assert.False(t, item.StartsAt.IsZero())
	}
}
