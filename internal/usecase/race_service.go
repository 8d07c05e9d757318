package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

type RaceService struct {
	raceRepo race.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewRaceService(raceRepo race.Repository, logger *logging.Logger) *RaceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RaceService{
		raceRepo: raceRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// RaceCalendar splits the season into races still accepting attention and
// races already underway or finished, ordered by start time.
type RaceCalendar struct {
	Upcoming []race.Race
	Past     []race.Race
}

func (s *RaceService) ListRaces(ctx context.Context) (RaceCalendar, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.ListRaces")
	defer span.End()

	races, err := s.raceRepo.List(ctx)
	if err != nil {
		return RaceCalendar{}, fmt.Errorf("list races: %w", err)
	}

	sort.SliceStable(races, func(i, j int) bool {
		return races[i].StartsAt.Before(races[j].StartsAt)
	})

	now := s.now().UTC()
	out := RaceCalendar{
		Upcoming: make([]race.Race, 0, len(races)),
		Past:     make([]race.Race, 0, len(races)),
	}
	for _, item := range races {
		if item.Status == race.StatusUpcoming && now.Before(item.StartsAt) {
			out.Upcoming = append(out.Upcoming, item)
			continue
		}
		out.Past = append(out.Past, item)
	}

	return out, nil
}

func (s *RaceService) GetRace(ctx context.Context, raceID string) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.GetRace")
	defer span.End()

	if raceID == "" {
		return race.Race{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, found, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return race.Race{}, fmt.Errorf("get race: %w", err)
	}
	if !found {
		return race.Race{}, fmt.Errorf("%w: race %s", ErrNotFound, raceID)
	}

	return item, nil
}

// AdvanceStatus moves a race one lifecycle step forward. Skipping a step or
// moving backward fails with race.ErrInvalidTransition; this is caller
// misuse, not a user-facing retry case.
func (s *RaceService) AdvanceStatus(ctx context.Context, raceID string, next race.Status) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.AdvanceStatus")
	defer span.End()

	item, err := s.GetRace(ctx, raceID)
	if err != nil {
		return race.Race{}, err
	}

	if err := item.Advance(next); err != nil {
		return race.Race{}, err
	}
	if err := s.raceRepo.Update(ctx, item); err != nil {
		return race.Race{}, fmt.Errorf("update race status: %w", err)
	}

	s.logger.InfoContext(ctx, "race status advanced", "race_id", raceID, "status", string(next))
	return item, nil
}
