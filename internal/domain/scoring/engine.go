package scoring

import (
	"sort"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/result"
)

// Score computes the per-user breakdown for one race. It is a pure, total
// function: malformed or incomplete predictions score zero in every category
// instead of erroring, since completeness is enforced at submission time.
// The weekend bonus is not part of this pass; see ApplyWeekendBonus.
func Score(p prediction.Prediction, actual result.RaceResult, qualifyingSlots int) Breakdown {
	out := Breakdown{
		RaceID: actual.RaceID,
		UserID: p.UserID,
	}

	positions := len(p.RaceOrder)
	if positions > prediction.RacePositions {
		positions = prediction.RacePositions
	}
	if positions > len(actual.RaceOrder) {
		positions = len(actual.RaceOrder)
	}
	for idx := 0; idx < positions; idx++ {
		if p.RaceOrder[idx] == "" || p.RaceOrder[idx] != actual.RaceOrder[idx] {
			continue
		}
		out.RacePoints += PointsForRacePosition(idx + 1)
		out.CorrectPositions++
	}

	slots := qualifyingSlots
	if slots > len(p.QualifyingOrder) {
		slots = len(p.QualifyingOrder)
	}
	if slots > len(actual.QualifyingOrder) {
		slots = len(actual.QualifyingOrder)
	}
	for idx := 0; idx < slots; idx++ {
		if p.QualifyingOrder[idx] == "" || p.QualifyingOrder[idx] != actual.QualifyingOrder[idx] {
			continue
		}
		out.QualifyingPoints += PointsForQualifyingPosition(idx + 1)
	}

	if p.TeamPicks.Best != "" && p.TeamPicks.Best == actual.BestTeamID {
		out.TeamPoints += bestTeamPoints
	}
	if p.TeamPicks.Second != "" && p.TeamPicks.Second == actual.SecondTeamID {
		out.TeamPoints += secondTeamPoints
	}

	// The penalty only applies to an incorrect positive claim; a "no"
	// prediction carries no delta either way.
	if p.RedFlag {
		if actual.HadRedFlag {
			out.RedFlagDelta = redFlagHitPoints
		} else {
			out.RedFlagDelta = redFlagMissPoints
		}
	}

	out.TotalPoints = out.RacePoints + out.QualifyingPoints + out.TeamPoints + out.RedFlagDelta
	return out
}

// ApplyWeekendBonus awards +20/+15/+10 to the three highest per-race
// subtotals. It needs the complete breakdown set of the race: the ordering
// is decided with the leaderboard's four-key comparator over subtotals, so
// it cannot be folded into the per-user pass. Rows are mutated in place;
// the relative input order is preserved.
func ApplyWeekendBonus(rows []Breakdown) {
	if len(rows) == 0 {
		return
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lessByScoreKeys(rows[order[a]], rows[order[b]])
	})

	bonuses := [...]int{weekendWinnerBonus1, weekendWinnerBonus2, weekendWinnerBonus3}
	for place, bonus := range bonuses {
		if place >= len(order) {
			break
		}
		row := &rows[order[place]]
		row.WeekendBonus = bonus
		row.TotalPoints += bonus
	}
}

// lessByScoreKeys is the shared ranking comparator: total points, correct
// positions, team points, qualifying points, each descending, first
// difference wins. Full ties keep insertion order.
func lessByScoreKeys(a, b Breakdown) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if a.CorrectPositions != b.CorrectPositions {
		return a.CorrectPositions > b.CorrectPositions
	}
	if a.TeamPoints != b.TeamPoints {
		return a.TeamPoints > b.TeamPoints
	}
	return a.QualifyingPoints > b.QualifyingPoints
}
