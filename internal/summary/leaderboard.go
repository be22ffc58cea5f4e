package summary

import (
	"sort"

	"github.com/pable/nrfi-metrics/internal/model"
)

// Leaderboard summarizes every pitcher present in records with at least minGames half-innings,
// ordered by NRFI rating descending, then by name.
func Leaderboard(records []model.HalfInningRecord, minGames int) []model.PlayerSummary {
	byPitcher := make(map[string][]model.HalfInningRecord)
	for _, r := range records {
		if r.PlayerName == "" {
			continue
		}
		byPitcher[r.PlayerName] = append(byPitcher[r.PlayerName], r)
	}

	out := make([]model.PlayerSummary, 0, len(byPitcher))
	for name, rs := range byPitcher {
		if len(rs) < minGames {
			continue
		}
		out = append(out, Build(name, rs))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NRFIRating != out[j].NRFIRating {
			return out[i].NRFIRating > out[j].NRFIRating
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}
