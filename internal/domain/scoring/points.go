package scoring

// racePointsByPosition is the fixed race finishing schedule for P1..P10.
var racePointsByPosition = [...]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

const (
	bestTeamPoints   = 15
	secondTeamPoints = 10

	redFlagHitPoints  = 50
	redFlagMissPoints = -50

	weekendWinnerBonus1 = 20
	weekendWinnerBonus2 = 15
	weekendWinnerBonus3 = 10
)

// PointsForRacePosition returns the schedule value for a 1-based race
// position, 0 outside P1..P10.
func PointsForRacePosition(position int) int {
	if position < 1 || position > len(racePointsByPosition) {
		return 0
	}
	return racePointsByPosition[position-1]
}

// PointsForQualifyingPosition reuses the race schedule truncated to the
// weekend's qualifying depth. Qualifying credit is accumulated separately
// from race points and feeds its own leaderboard tiebreak field.
func PointsForQualifyingPosition(position int) int {
	return PointsForRacePosition(position)
}
