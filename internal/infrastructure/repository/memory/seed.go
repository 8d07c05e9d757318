package memory

import (
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/season"
	"github.com/gridpicks/gridpicks/internal/domain/user"
)

// SeedTeams returns the demo constructor catalog used when no database is
// configured.
func SeedTeams() []season.Team {
	return []season.Team{
		{ID: "team-redline", Name: "Redline Racing"},
		{ID: "team-silverhawk", Name: "Silverhawk GP"},
		{ID: "team-azzurri", Name: "Scuderia Azzurri"},
		{ID: "team-boreal", Name: "Boreal Motorsport"},
		{ID: "team-solaris", Name: "Solaris F1 Team"},
		{ID: "team-meridian", Name: "Meridian Grand Prix"},
		{ID: "team-vortex", Name: "Vortex Racing"},
		{ID: "team-atlantic", Name: "Atlantic Works"},
		{ID: "team-kestrel", Name: "Kestrel Apex"},
		{ID: "team-aurum", Name: "Aurum Autosport"},
	}
}

func SeedDrivers() []season.Driver {
	teams := SeedTeams()
	names := []string{
		"Luca Moretti", "Jonas Berg", "Felipe Arrieta", "Theo Delacroix",
		"Marcus Hale", "Kenji Sato", "Oliver Blake", "Santiago Vidal",
		"Emil Novak", "Ryan Teller", "Arthur Fontaine", "Nikolai Orlov",
		"Diego Lastra", "Hugo Lindgren", "Tom Wickham", "Mateo Ferraro",
		"Andre Kuiper", "Lewis Catton", "Pietro Salvi", "Max Reinhardt",
	}

	drivers := make([]season.Driver, 0, len(names))
	for idx, name := range names {
		drivers = append(drivers, season.Driver{
			ID:     "driver-" + driverSlug(idx+1),
			Name:   name,
			TeamID: teams[idx/2].ID,
			Number: idx + 1,
		})
	}
	return drivers
}

func driverSlug(number int) string {
	const digits = "0123456789"
	if number < 10 {
		return "0" + string(digits[number])
	}
	return string(digits[number/10]) + string(digits[number%10])
}

func SeedRaces() []race.Race {
	season2026 := time.Date(2026, time.March, 8, 15, 0, 0, 0, time.UTC)
	return []race.Race{
		{
			ID:       "race-2026-bahrain",
			Name:     "Bahrain Grand Prix",
			Location: "Sakhir",
			StartsAt: season2026,
			Status:   race.StatusRaceCompleted,
		},
		{
			ID:       "race-2026-jeddah",
			Name:     "Saudi Arabian Grand Prix",
			Location: "Jeddah",
			StartsAt: season2026.AddDate(0, 0, 14),
			Status:   race.StatusRaceCompleted,
		},
		{
			ID:              "race-2026-miami",
			Name:            "Miami Grand Prix",
			Location:        "Miami",
			StartsAt:        season2026.AddDate(0, 2, 0),
			IsSprintWeekend: true,
			Status:          race.StatusUpcoming,
		},
		{
			ID:       "race-2026-monaco",
			Name:     "Monaco Grand Prix",
			Location: "Monte Carlo",
			StartsAt: season2026.AddDate(0, 2, 21),
			Status:   race.StatusUpcoming,
		},
		{
			ID:              "race-2026-spielberg",
			Name:            "Austrian Grand Prix",
			Location:        "Spielberg",
			StartsAt:        season2026.AddDate(0, 3, 21),
			IsSprintWeekend: true,
			Status:          race.StatusUpcoming,
		},
		{
			ID:       "race-2026-silverstone",
			Name:     "British Grand Prix",
			Location: "Silverstone",
			StartsAt: season2026.AddDate(0, 4, 5),
			Status:   race.StatusUpcoming,
		},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: "user-demo", DisplayName: "Demo Picker"},
		{ID: "user-ada", DisplayName: "Ada"},
		{ID: "user-ben", DisplayName: "Ben"},
	}
}
