// Package summary rolls a pitcher's half-inning records up into first-inning rate statistics.
package summary

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/rating"
)

// Source returns the stored half-inning records for one pitcher.
type Source interface {
	HalfInningsForPitcher(name string) ([]model.HalfInningRecord, error)
}

// Summarize loads a pitcher's records from src and builds the summary. An unknown pitcher
// yields model.ZeroSummary, not an error.
func Summarize(src Source, pitcher string) (model.PlayerSummary, error) {
	records, err := src.HalfInningsForPitcher(pitcher)
	if err != nil {
		return model.PlayerSummary{}, fmt.Errorf("load records for %s: %w", pitcher, err)
	}
	return Build(pitcher, records), nil
}

// Build reduces the records whose player name equals name. Records for other pitchers are
// ignored, so the full table may be passed in.
func Build(name string, records []model.HalfInningRecord) model.PlayerSummary {
	var mine []model.HalfInningRecord
	for _, r := range records {
		if r.PlayerName == name {
			mine = append(mine, r)
		}
	}
	if len(mine) == 0 {
		return model.ZeroSummary(name)
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].GameDate < mine[j].GameDate
	})

	var wins, losses, streak, best int
	for _, r := range mine {
		if r.HittingRuns == 0 {
			wins++
			streak++
		} else {
			losses++
			streak = 0
		}
		best = max(best, streak)
	}

	var outs, hits, walks, hbp, strikeouts, homeRuns, runs float64
	var slg, ops, era, whip meanAcc
	for _, r := range mine {
		outs += float64(r.Outs)
		hits += float64(r.Hits)
		walks += float64(r.Count(model.Walk))
		hbp += float64(r.Count(model.HitByPitch))
		strikeouts += float64(r.Count(model.Strikeout))
		homeRuns += float64(r.Count(model.HomeRun))
		if !model.IsMissing(r.HittingRuns) {
			runs += r.HittingRuns
		}
		slg.add(r.SLG)
		ops.add(r.OPS)
		era.add(r.ERA)
		whip.add(r.WHIP)
	}

	battersFaced := outs/3 + hits + walks + homeRuns + hbp

	s := model.PlayerSummary{
		PlayerName:          name,
		GamesPlayed:         len(mine),
		FirstInningsPitched: len(mine),
		Strikeouts:          int(strikeouts),
		Walks:               int(walks),
		ERA:                 roundTo(era.mean(), 2),
		WHIP:                roundTo(whip.mean(), 2),
		HomeRunsAllowed:     int(homeRuns),
		HitsAllowed:         int(hits),
		RunsAllowed:         int(runs),
		NRFIRecord:          fmt.Sprintf("%d-%d", wins, losses),
		NRFIStreak:          best,
		StrikeoutRate:       roundTo(per(strikeouts, battersFaced)*100, 2),
		WalkRate:            roundTo(per(walks, battersFaced)*100, 2),
		BAA:                 roundTo(per(hits, battersFaced), 3),
		OBP:                 roundTo(per(hits+walks+hbp, battersFaced), 3),
		SLG:                 roundTo(slg.mean(), 3),
		OPS:                 roundTo(ops.mean(), 3),
	}
	s.NRFIRating = rating.Score(s)
	return s
}

// per divides num by den, returning 0 when den is not positive.
func per(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// meanAcc averages the non-missing values it is given. An empty accumulator means 0.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if model.IsMissing(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m *meanAcc) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// roundTo rounds x to places decimals, resolving ties on the exact binary value to even.
func roundTo(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}
