package standings

import (
	"sort"

	"github.com/gridpicks/gridpicks/internal/domain/scoring"
)

// Entry is one leaderboard row. It is derived by folding a user's breakdowns
// across all completed races and is never edited directly.
type Entry struct {
	UserID           string
	DisplayName      string
	TotalPoints      int
	CorrectPositions int
	TeamPoints       int
	QualifyingPoints int
	Rank             int
}

// Fold accumulates breakdowns into per-user entries. Entry order follows the
// first appearance of each user in rows, which keeps ranking insertion-stable
// for full ties.
func Fold(rows []scoring.Breakdown) []Entry {
	index := make(map[string]int, len(rows))
	out := make([]Entry, 0, len(rows))

	for _, row := range rows {
		idx, ok := index[row.UserID]
		if !ok {
			idx = len(out)
			index[row.UserID] = idx
			out = append(out, Entry{UserID: row.UserID})
		}
		out[idx].TotalPoints += row.TotalPoints
		out[idx].CorrectPositions += row.CorrectPositions
		out[idx].TeamPoints += row.TeamPoints
		out[idx].QualifyingPoints += row.QualifyingPoints
	}

	return out
}

// Rank sorts entries with the four-key comparator (total points, correct
// positions, team points, qualifying points, each descending) and assigns
// 1-based ordinals. Full ties keep their relative order and still receive
// distinct rank numbers.
func Rank(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	for idx := range out {
		out[idx].Rank = idx + 1
	}
	return out
}

func less(a, b Entry) bool {
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
