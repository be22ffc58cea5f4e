// Package rating turns a pitcher summary into a single 0-100 NRFI rating.
package rating

import (
	"math"
	"strconv"
	"strings"

	"github.com/pable/nrfi-metrics/internal/model"
)

// Factor is one weighted input to the rating. Normalize maps the statistic onto a scale where
// higher is better for the pitcher, nominally [0, 1].
type Factor struct {
	Name      string
	Weight    float64
	Normalize func(s model.PlayerSummary) float64
}

// Factors is the weighting scheme. Weights sum to 1.
var Factors = []Factor{
	{"NRFI Record", 0.05, func(s model.PlayerSummary) float64 { return perGame(float64(Wins(s.NRFIRecord)), s.GamesPlayed) }},
	{"NRFI Streak", 0.05, func(s model.PlayerSummary) float64 { return perGame(float64(s.NRFIStreak), s.GamesPlayed) }},
	{"K%", 0.10, func(s model.PlayerSummary) float64 { return s.StrikeoutRate / 100 }},
	{"BB%", 0.10, func(s model.PlayerSummary) float64 { return (100 - s.WalkRate) / 100 }},
	{"BAA", 0.10, func(s model.PlayerSummary) float64 { return 1 - s.BAA }},
	{"OBP", 0.20, func(s model.PlayerSummary) float64 { return 1 - s.OBP }},
	{"SLG", 0.15, func(s model.PlayerSummary) float64 { return 1 - s.SLG }},
	{"OPS", 0.25, func(s model.PlayerSummary) float64 { return 1 - s.OPS }},
}

// Score returns round(100 * Σ weight·normalized). The result is not clamped.
func Score(s model.PlayerSummary) int {
	var total float64
	for _, f := range Factors {
		total += f.Weight * f.Normalize(s)
	}
	return int(math.RoundToEven(total * 100))
}

// Contribution is one factor's share of a rating.
type Contribution struct {
	Name       string
	Weight     float64
	Normalized float64
	Points     float64 // 100 * Weight * Normalized
}

// Breakdown lists every factor's normalized value and points, in Factors order.
func Breakdown(s model.PlayerSummary) []Contribution {
	out := make([]Contribution, len(Factors))
	for i, f := range Factors {
		n := f.Normalize(s)
		out[i] = Contribution{Name: f.Name, Weight: f.Weight, Normalized: n, Points: 100 * f.Weight * n}
	}
	return out
}

// Wins parses the wins half of a "wins-losses" record. Unparseable records count 0 wins.
func Wins(record string) int {
	head, _, _ := strings.Cut(record, "-")
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return n
}

func perGame(v float64, games int) float64 {
	if games <= 0 {
		return 0
	}
	return v / float64(games)
}
