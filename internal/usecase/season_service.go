package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridpicks/gridpicks/internal/domain/season"
)

// SeasonService serves the driver and team reference catalogs predictions
// are built from.
type SeasonService struct {
	seasonRepo season.Repository
}

func NewSeasonService(seasonRepo season.Repository) *SeasonService {
	return &SeasonService{seasonRepo: seasonRepo}
}

func (s *SeasonService) ListDrivers(ctx context.Context) ([]season.Driver, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListDrivers")
	defer span.End()

	drivers, err := s.seasonRepo.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Number < drivers[j].Number
	})
	return drivers, nil
}

func (s *SeasonService) ListTeams(ctx context.Context) ([]season.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListTeams")
	defer span.End()

	teams, err := s.seasonRepo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
	return teams, nil
}
