package standings

import (
	"testing"

	"github.com/gridpicks/gridpicks/internal/domain/scoring"
)

func TestFold_AccumulatesAcrossRaces(t *testing.T) {
	t.Parallel()

	rows := []scoring.Breakdown{
		{RaceID: "gp-01", UserID: "a", TotalPoints: 58, CorrectPositions: 3, TeamPoints: 15, QualifyingPoints: 25},
		{RaceID: "gp-02", UserID: "a", TotalPoints: 40, CorrectPositions: 1, TeamPoints: 10, QualifyingPoints: 0},
		{RaceID: "gp-01", UserID: "b", TotalPoints: 70, CorrectPositions: 2, TeamPoints: 0, QualifyingPoints: 18},
	}

	entries := Fold(rows)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "a" || entries[0].TotalPoints != 98 || entries[0].CorrectPositions != 4 ||
		entries[0].TeamPoints != 25 || entries[0].QualifyingPoints != 25 {
		t.Fatalf("unexpected fold for user a: %+v", entries[0])
	}
	if entries[1].UserID != "b" || entries[1].TotalPoints != 70 {
		t.Fatalf("unexpected fold for user b: %+v", entries[1])
	}
}

func TestRank_TiebreakByCorrectPositions(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{UserID: "a", TotalPoints: 100, CorrectPositions: 2},
		{UserID: "b", TotalPoints: 100, CorrectPositions: 7},
		{UserID: "c", TotalPoints: 120},
	}

	ranked := Rank(entries)
	if ranked[0].UserID != "c" || ranked[0].Rank != 1 {
		t.Fatalf("rank 1 = %+v", ranked[0])
	}
	if ranked[1].UserID != "b" || ranked[1].Rank != 2 {
		t.Fatalf("rank 2 = %+v", ranked[1])
	}
	if ranked[2].UserID != "a" || ranked[2].Rank != 3 {
		t.Fatalf("rank 3 = %+v", ranked[2])
	}
}

func TestRank_LaterTiebreakKeys(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{UserID: "a", TotalPoints: 80, CorrectPositions: 3, TeamPoints: 10, QualifyingPoints: 5},
		{UserID: "b", TotalPoints: 80, CorrectPositions: 3, TeamPoints: 25, QualifyingPoints: 0},
		{UserID: "c", TotalPoints: 80, CorrectPositions: 3, TeamPoints: 10, QualifyingPoints: 30},
	}

	ranked := Rank(entries)
	if ranked[0].UserID != "b" {
		t.Fatalf("team points tiebreak failed: %+v", ranked[0])
	}
	if ranked[1].UserID != "c" {
		t.Fatalf("qualifying points tiebreak failed: %+v", ranked[1])
	}
}

func TestRank_FullTieKeepsInsertionOrderWithDistinctRanks(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{UserID: "first", TotalPoints: 50},
		{UserID: "second", TotalPoints: 50},
	}

	ranked := Rank(entries)
	if ranked[0].UserID != "first" || ranked[1].UserID != "second" {
		t.Fatalf("full tie reordered entries: %+v", ranked)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("ranks must be distinct ordinals: %+v", ranked)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{UserID: "a", TotalPoints: 10},
		{UserID: "b", TotalPoints: 20},
	}
	_ = Rank(entries)
	if entries[0].UserID != "a" || entries[0].Rank != 0 {
		t.Fatalf("input slice mutated: %+v", entries[0])
	}
}
