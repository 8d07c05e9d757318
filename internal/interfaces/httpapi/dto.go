package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	"github.com/gridpicks/gridpicks/internal/domain/season"
	"github.com/gridpicks/gridpicks/internal/domain/standings"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

type raceDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Location        string `json:"location"`
	StartsAtUTC     string `json:"startsAtUtc"`
	LockTimeUTC     string `json:"lockTimeUtc"`
	IsSprintWeekend bool   `json:"isSprintWeekend"`
	Status          string `json:"status"`
	IsLocked        bool   `json:"isLocked"`
	HadRedFlag      *bool  `json:"hadRedFlag,omitempty"`
}

type raceCalendarDTO struct {
	Upcoming []raceDTO `json:"upcoming"`
	Past     []raceDTO `json:"past"`
}

type teamPicksDTO struct {
	Best   string `json:"best"`
	Second string `json:"second"`
}

type predictionDTO struct {
	RaceID                string            `json:"raceId"`
	UserID                string            `json:"userId"`
	RedFlagPrediction     bool              `json:"redFlagPrediction"`
	QualifyingPredictions map[string]string `json:"qualifyingPredictions"`
	RacePredictions       map[string]string `json:"racePredictions"`
	TeamPredictions       teamPicksDTO      `json:"teamPredictions"`
	UpdatedAtUTC          string            `json:"updatedAtUtc,omitempty"`
}

type savePredictionRequest struct {
	RedFlagPrediction     bool              `json:"redFlagPrediction"`
	QualifyingPredictions map[string]string `json:"qualifyingPredictions" validate:"required,min=1"`
	RacePredictions       map[string]string `json:"racePredictions" validate:"required,min=1"`
	TeamPredictions       teamPicksDTO      `json:"teamPredictions"`
}

type breakdownDTO struct {
	RaceID           string `json:"raceId"`
	UserID           string `json:"userId"`
	RacePoints       int    `json:"racePoints"`
	QualifyingPoints int    `json:"qualifyingPoints"`
	TeamPoints       int    `json:"teamPoints"`
	RedFlagDelta     int    `json:"redFlagDelta"`
	WeekendBonus     int    `json:"weekendBonus"`
	CorrectPositions int    `json:"correctPositions"`
	TotalPoints      int    `json:"totalPoints"`
	CalculatedAtUTC  string `json:"calculatedAtUtc,omitempty"`
}

type leaderboardEntryDTO struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"userId"`
	DisplayName      string `json:"displayName"`
	TotalPoints      int    `json:"totalPoints"`
	CorrectPositions int    `json:"correctPositions"`
	TeamPoints       int    `json:"teamPoints"`
	QualifyingPoints int    `json:"qualifyingPoints"`
}

type driverDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
	Number int    `json:"number"`
}

type teamDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ingestResultRequest struct {
	RaceID          string            `json:"raceId" validate:"required"`
	QualifyingOrder map[string]string `json:"qualifyingOrder" validate:"required,min=1"`
	RaceOrder       map[string]string `json:"raceOrder" validate:"required,min=1"`
	HadRedFlag      bool              `json:"hadRedFlag"`
	BestTeamID      string            `json:"bestTeamId" validate:"required"`
	SecondTeamID    string            `json:"secondTeamId" validate:"required"`
}

type resultDTO struct {
	RaceID          string            `json:"raceId"`
	QualifyingOrder map[string]string `json:"qualifyingOrder"`
	RaceOrder       map[string]string `json:"raceOrder"`
	HadRedFlag      bool              `json:"hadRedFlag"`
	BestTeamID      string            `json:"bestTeamId"`
	SecondTeamID    string            `json:"secondTeamId"`
	IngestedAtUTC   string            `json:"ingestedAtUtc"`
}

// positionMapToList converts a wire map keyed by "1"-based position strings
// into the dense list the domain works with. Gaps, duplicates and positions
// outside [1, len] are rejected here, so malformed shapes never reach the
// rules layer as silently truncated lists.
func positionMapToList(m map[string]string) ([]string, error) {
	if len(m) == 0 {
		return nil, nil
	}

	out := make([]string, len(m))
	for rawPos, id := range m {
		pos, err := strconv.Atoi(rawPos)
		if err != nil {
			return nil, fmt.Errorf("%w: position %q is not a number", usecase.ErrInvalidInput, rawPos)
		}
		if pos < 1 || pos > len(m) {
			return nil, fmt.Errorf("%w: position %d is outside 1..%d", usecase.ErrInvalidInput, pos, len(m))
		}
		if out[pos-1] != "" {
			return nil, fmt.Errorf("%w: duplicate position %d", usecase.ErrInvalidInput, pos)
		}
		out[pos-1] = id
	}
	return out, nil
}

func listToPositionMap(list []string) map[string]string {
	out := make(map[string]string, len(list))
	for idx, id := range list {
		out[strconv.Itoa(idx+1)] = id
	}
	return out
}

func raceToDTO(ctx context.Context, v race.Race, now time.Time) raceDTO {
	ctx, span := startSpan(ctx, "httpapi.raceToDTO")
	defer span.End()

	return raceDTO{
		ID:              v.ID,
		Name:            v.Name,
		Location:        v.Location,
		StartsAtUTC:     v.StartsAt.UTC().Format(time.RFC3339),
		LockTimeUTC:     v.LockTime().UTC().Format(time.RFC3339),
		IsSprintWeekend: v.IsSprintWeekend,
		Status:          string(v.Status),
		IsLocked:        v.IsLocked(now),
		HadRedFlag:      v.HadRedFlag,
	}
}

func predictionToDTO(ctx context.Context, v prediction.Prediction) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	out := predictionDTO{
		RaceID:                v.RaceID,
		UserID:                v.UserID,
		RedFlagPrediction:     v.RedFlag,
		QualifyingPredictions: listToPositionMap(v.QualifyingOrder),
		RacePredictions:       listToPositionMap(v.RaceOrder),
		TeamPredictions: teamPicksDTO{
			Best:   v.TeamPicks.Best,
			Second: v.TeamPicks.Second,
		},
	}
	if !v.UpdatedAt.IsZero() {
		out.UpdatedAtUTC = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func breakdownToDTO(ctx context.Context, v scoring.Breakdown) breakdownDTO {
	ctx, span := startSpan(ctx, "httpapi.breakdownToDTO")
	defer span.End()

	out := breakdownDTO{
		RaceID:           v.RaceID,
		UserID:           v.UserID,
		RacePoints:       v.RacePoints,
		QualifyingPoints: v.QualifyingPoints,
		TeamPoints:       v.TeamPoints,
		RedFlagDelta:     v.RedFlagDelta,
		WeekendBonus:     v.WeekendBonus,
		CorrectPositions: v.CorrectPositions,
		TotalPoints:      v.TotalPoints,
	}
	if !v.CalculatedAt.IsZero() {
		out.CalculatedAtUTC = v.CalculatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func standingsEntryToDTO(ctx context.Context, v standings.Entry) leaderboardEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.standingsEntryToDTO")
	defer span.End()

	return leaderboardEntryDTO{
		Rank:             v.Rank,
		UserID:           v.UserID,
		DisplayName:      v.DisplayName,
		TotalPoints:      v.TotalPoints,
		CorrectPositions: v.CorrectPositions,
		TeamPoints:       v.TeamPoints,
		QualifyingPoints: v.QualifyingPoints,
	}
}

func driverToDTO(ctx context.Context, v season.Driver) driverDTO {
	ctx, span := startSpan(ctx, "httpapi.driverToDTO")
	defer span.End()

	return driverDTO{
		ID:     v.ID,
		Name:   v.Name,
		TeamID: v.TeamID,
		Number: v.Number,
	}
}

func teamToDTO(ctx context.Context, v season.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:   v.ID,
		Name: v.Name,
	}
}

func resultToDTO(ctx context.Context, v result.RaceResult) resultDTO {
	ctx, span := startSpan(ctx, "httpapi.resultToDTO")
	defer span.End()

	return resultDTO{
		RaceID:          v.RaceID,
		QualifyingOrder: listToPositionMap(v.QualifyingOrder),
		RaceOrder:       listToPositionMap(v.RaceOrder),
		HadRedFlag:      v.HadRedFlag,
		BestTeamID:      v.BestTeamID,
		SecondTeamID:    v.SecondTeamID,
		IngestedAtUTC:   v.IngestedAt.UTC().Format(time.RFC3339),
	}
}
