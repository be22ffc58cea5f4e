package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/nrfi-metrics/internal/model"
)

// Reducer names how a column is folded across the events of one half-inning.
type Reducer int

const (
	First Reducer = iota // first non-missing value
	Mean                 // arithmetic mean of non-missing values, Missing if none
	Max                  // maximum of non-missing values, Missing if none
	Sum                  // sum of non-missing values, 0 if none
	Count                // number of events carrying the column's outcome label
)

func (r Reducer) String() string {
	switch r {
	case First:
		return "first"
	case Mean:
		return "mean"
	case Max:
		return "max"
	case Sum:
		return "sum"
	case Count:
		return "count"
	default:
		return "?"
	}
}

// Reducers maps every aggregated column to its reducer. Text columns honour First and Max.
var Reducers = func() map[string]Reducer {
	m := map[string]Reducer{
		"game_date":                       First,
		"player_name":                     First,
		"pitcher":                         First,
		"home_team":                       First,
		"away_team":                       First,
		"p_throws":                        First,
		"fielding_team":                   First,
		"launch_speed":                    Mean,
		"estimated_woba_using_speedangle": Mean,
		"estimated_ba_using_speedangle":   Mean,
		"barrel":                          Mean,
		"home_score":                      Max,
		"away_score":                      Max,
		"delta_run_exp":                   Sum,
	}
	for _, o := range model.Outcomes {
		m[o.String()] = Count
	}
	return m
}()

type textColumn struct {
	name   string
	value  func(e *model.LabeledEvent) string
	assign func(r *model.HalfInningRecord, v string)
}

type numericColumn struct {
	name   string
	value  func(e *model.LabeledEvent) float64
	assign func(r *model.HalfInningRecord, v float64)
}

var textColumns = []textColumn{
	{"game_date", func(e *model.LabeledEvent) string { return e.GameDate }, func(r *model.HalfInningRecord, v string) { r.GameDate = v }},
	{"player_name", func(e *model.LabeledEvent) string { return e.PlayerName }, func(r *model.HalfInningRecord, v string) { r.PlayerName = v }},
	{"home_team", func(e *model.LabeledEvent) string { return e.HomeTeam }, func(r *model.HalfInningRecord, v string) { r.HomeTeam = v }},
	{"away_team", func(e *model.LabeledEvent) string { return e.AwayTeam }, func(r *model.HalfInningRecord, v string) { r.AwayTeam = v }},
	{"p_throws", func(e *model.LabeledEvent) string { return e.PThrows }, func(r *model.HalfInningRecord, v string) { r.PThrows = v }},
	{"fielding_team", func(e *model.LabeledEvent) string { return e.FieldingTeam }, func(r *model.HalfInningRecord, v string) { r.FieldingTeam = v }},
}

var numericColumns = []numericColumn{
	{"pitcher", func(e *model.LabeledEvent) float64 { return float64(e.PitcherID) }, func(r *model.HalfInningRecord, v float64) {
		if !model.IsMissing(v) {
			r.PitcherID = int64(v)
		}
	}},
	{"launch_speed", func(e *model.LabeledEvent) float64 { return e.LaunchSpeed }, func(r *model.HalfInningRecord, v float64) { r.LaunchSpeed = v }},
	{"estimated_woba_using_speedangle", func(e *model.LabeledEvent) float64 { return e.EstimatedWOBA }, func(r *model.HalfInningRecord, v float64) { r.EstimatedWOBA = v }},
	{"estimated_ba_using_speedangle", func(e *model.LabeledEvent) float64 { return e.EstimatedBA }, func(r *model.HalfInningRecord, v float64) { r.EstimatedBA = v }},
	{"barrel", func(e *model.LabeledEvent) float64 { return e.Barrel }, func(r *model.HalfInningRecord, v float64) { r.Barrel = v }},
	{"home_score", func(e *model.LabeledEvent) float64 { return e.HomeScore }, func(r *model.HalfInningRecord, v float64) { r.HomeScore = v }},
	{"away_score", func(e *model.LabeledEvent) float64 { return e.AwayScore }, func(r *model.HalfInningRecord, v float64) { r.AwayScore = v }},
	{"delta_run_exp", func(e *model.LabeledEvent) float64 { return e.DeltaRunExp }, func(r *model.HalfInningRecord, v float64) { r.DeltaRunExp = v }},
}

// Sink receives the finished half-inning table.
type Sink interface {
	WriteHalfInnings(records []model.HalfInningRecord) error
}

// MultiSink writes the same records to every sink in order, stopping at the first error.
type MultiSink []Sink

// WriteHalfInnings implements Sink.
func (m MultiSink) WriteHalfInnings(records []model.HalfInningRecord) error {
	for _, s := range m {
		if err := s.WriteHalfInnings(records); err != nil {
			return err
		}
	}
	return nil
}

// Result reports what one aggregation pass consumed and produced.
type Result struct {
	EventsRead int
	EventsKept int
	Written    int
	// UnknownLabels counts event labels that were folded into other_out.
	UnknownLabels map[string]int
}

// Aggregate filters events, builds one record per (game, half) and writes the table to sink.
func Aggregate(events []model.PitchEvent, sink Sink) (Result, error) {
	if sink == nil {
		return Result{}, fmt.Errorf("nil sink")
	}
	records, res := Build(events)
	if err := sink.WriteHalfInnings(records); err != nil {
		return res, fmt.Errorf("write half-innings: %w", err)
	}
	res.Written = len(records)
	return res, nil
}

// Build runs the filter, grouping and derived-metric passes without writing anywhere.
// Records are ordered by game date ascending.
func Build(events []model.PitchEvent) ([]model.HalfInningRecord, Result) {
	labeled := Filter(events)
	res := Result{
		EventsRead:    len(events),
		EventsKept:    len(labeled),
		UnknownLabels: make(map[string]int),
	}
	for _, e := range labeled {
		if _, ok := model.ParseOutcome(e.Event); !ok {
			res.UnknownLabels[e.Event]++
		}
	}
	return Group(labeled), res
}

// Group folds labeled events into one HalfInningRecord per (game, half), using Reducers for
// every column, then derives rate statistics and sorts by game date.
func Group(events []model.LabeledEvent) []model.HalfInningRecord {
	type groupKey struct {
		gamePK int64
		half   model.Half
	}

	groups := make(map[groupKey][]*model.LabeledEvent)
	var keys []groupKey
	for i := range events {
		e := &events[i]
		k := groupKey{e.GamePK, e.Half}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].gamePK != keys[j].gamePK {
			return keys[i].gamePK < keys[j].gamePK
		}
		return keys[i].half < keys[j].half // "Bot" < "Top"
	})

	out := make([]model.HalfInningRecord, 0, len(keys))
	vals := make([]float64, 0, 16)
	texts := make([]string, 0, 16)
	for _, k := range keys {
		group := groups[k]
		rec := model.HalfInningRecord{GamePK: k.gamePK, Half: k.half}

		for _, col := range textColumns {
			texts = texts[:0]
			for _, e := range group {
				texts = append(texts, col.value(e))
			}
			col.assign(&rec, reduceText(Reducers[col.name], texts))
		}
		for _, col := range numericColumns {
			vals = vals[:0]
			for _, e := range group {
				vals = append(vals, col.value(e))
			}
			col.assign(&rec, reduce(Reducers[col.name], vals))
		}
		for _, e := range group {
			rec.Counts.Add(e.Outcome, 1)
		}

		rec.HittingTeam, rec.HittingRuns = hittingSide(rec.Half, rec.HomeTeam, rec.AwayTeam, rec.HomeScore, rec.AwayScore)
		Derive(&rec)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GameDate < out[j].GameDate
	})
	return out
}

// reduce folds vals with the given reducer. Missing values are skipped.
func reduce(kind Reducer, vals []float64) float64 {
	switch kind {
	case First:
		for _, v := range vals {
			if !model.IsMissing(v) {
				return v
			}
		}
		return model.Missing
	case Mean:
		var sum float64
		var n int
		for _, v := range vals {
			if !model.IsMissing(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			return model.Missing
		}
		return sum / float64(n)
	case Max:
		best := model.Missing
		for _, v := range vals {
			if model.IsMissing(v) {
				continue
			}
			if model.IsMissing(best) || v > best {
				best = v
			}
		}
		return best
	case Sum:
		var sum float64
		for _, v := range vals {
			if !model.IsMissing(v) {
				sum += v
			}
		}
		return sum
	case Count:
		return float64(len(vals))
	default:
		return model.Missing
	}
}

// reduceText folds text values. Empty strings are missing. First and Max are the only
// reducers that apply to text; Max compares lexically. Anything else yields "".
func reduceText(kind Reducer, vals []string) string {
	var out string
	for _, v := range vals {
		if v == "" {
			continue
		}
		switch kind {
		case First:
			return v
		case Max:
			if v > out {
				out = v
			}
		default:
			return ""
		}
	}
	return out
}
