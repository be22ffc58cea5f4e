package flatfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pable/nrfi-metrics/internal/model"
)

// column binds one persisted CSV column to a HalfInningRecord field.
type column struct {
	name string
	get  func(r *model.HalfInningRecord) string
	set  func(r *model.HalfInningRecord, cell string) error
}

// columns is the persisted column order.
var columns = func() []column {
	cols := []column{
		int64Col("game_pk", func(r *model.HalfInningRecord) *int64 { return &r.GamePK }),
		{
			name: "inning_topbot",
			get:  func(r *model.HalfInningRecord) string { return string(r.Half) },
			set:  func(r *model.HalfInningRecord, s string) error { r.Half = model.Half(s); return nil },
		},
		textCol("game_date", func(r *model.HalfInningRecord) *string { return &r.GameDate }),
		textCol("player_name", func(r *model.HalfInningRecord) *string { return &r.PlayerName }),
		int64Col("pitcher", func(r *model.HalfInningRecord) *int64 { return &r.PitcherID }),
		textCol("home_team", func(r *model.HalfInningRecord) *string { return &r.HomeTeam }),
		textCol("away_team", func(r *model.HalfInningRecord) *string { return &r.AwayTeam }),
		textCol("p_throws", func(r *model.HalfInningRecord) *string { return &r.PThrows }),
		textCol("fielding_team", func(r *model.HalfInningRecord) *string { return &r.FieldingTeam }),
		floatCol("launch_speed", func(r *model.HalfInningRecord) *float64 { return &r.LaunchSpeed }),
		floatCol("estimated_woba_using_speedangle", func(r *model.HalfInningRecord) *float64 { return &r.EstimatedWOBA }),
		floatCol("estimated_ba_using_speedangle", func(r *model.HalfInningRecord) *float64 { return &r.EstimatedBA }),
		floatCol("home_score", func(r *model.HalfInningRecord) *float64 { return &r.HomeScore }),
		floatCol("away_score", func(r *model.HalfInningRecord) *float64 { return &r.AwayScore }),
		floatCol("delta_run_exp", func(r *model.HalfInningRecord) *float64 { return &r.DeltaRunExp }),
	}
	for _, o := range model.Outcomes {
		cols = append(cols, countCol(o))
	}
	return append(cols,
		floatCol("barrel", func(r *model.HalfInningRecord) *float64 { return &r.Barrel }),
		textCol("hitting_team", func(r *model.HalfInningRecord) *string { return &r.HittingTeam }),
		floatCol("hitting_runs", func(r *model.HalfInningRecord) *float64 { return &r.HittingRuns }),
		intCol("hits", func(r *model.HalfInningRecord) *int { return &r.Hits }),
		intCol("outs", func(r *model.HalfInningRecord) *int { return &r.Outs }),
		intCol("walks", func(r *model.HalfInningRecord) *int { return &r.Walks }),
		intCol("xbh", func(r *model.HalfInningRecord) *int { return &r.XBH }),
		floatCol("avg", func(r *model.HalfInningRecord) *float64 { return &r.AVG }),
		floatCol("era", func(r *model.HalfInningRecord) *float64 { return &r.ERA }),
		floatCol("slg", func(r *model.HalfInningRecord) *float64 { return &r.SLG }),
		floatCol("obp", func(r *model.HalfInningRecord) *float64 { return &r.OBP }),
		floatCol("ops", func(r *model.HalfInningRecord) *float64 { return &r.OPS }),
		floatCol("whip", func(r *model.HalfInningRecord) *float64 { return &r.WHIP }),
		intCol("games_played", func(r *model.HalfInningRecord) *int { return &r.GamesPlayed }),
		floatCol("hr9", func(r *model.HalfInningRecord) *float64 { return &r.HR9 }),
	)
}()

// Header returns the persisted column names in order.
func Header() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}

func textCol(name string, field func(*model.HalfInningRecord) *string) column {
	return column{
		name: name,
		get:  func(r *model.HalfInningRecord) string { return *field(r) },
		set:  func(r *model.HalfInningRecord, s string) error { *field(r) = s; return nil },
	}
}

func floatCol(name string, field func(*model.HalfInningRecord) *float64) column {
	return column{
		name: name,
		get:  func(r *model.HalfInningRecord) string { return formatFloat(*field(r)) },
		set: func(r *model.HalfInningRecord, s string) error {
			v, err := parseFloat(s)
			*field(r) = v
			return err
		},
	}
}

func intCol(name string, field func(*model.HalfInningRecord) *int) column {
	return column{
		name: name,
		get:  func(r *model.HalfInningRecord) string { return strconv.Itoa(*field(r)) },
		set: func(r *model.HalfInningRecord, s string) error {
			n, err := parseInt(s)
			*field(r) = int(n)
			return err
		},
	}
}

func int64Col(name string, field func(*model.HalfInningRecord) *int64) column {
	return column{
		name: name,
		get:  func(r *model.HalfInningRecord) string { return strconv.FormatInt(*field(r), 10) },
		set: func(r *model.HalfInningRecord, s string) error {
			n, err := parseInt(s)
			*field(r) = n
			return err
		},
	}
}

func countCol(o model.Outcome) column {
	return column{
		name: o.String(),
		get:  func(r *model.HalfInningRecord) string { return strconv.Itoa(r.Count(o)) },
		set: func(r *model.HalfInningRecord, s string) error {
			n, err := parseInt(s)
			r.Counts.Add(o, int(n))
			return err
		},
	}
}

// formatFloat writes the missing marker as an empty cell.
func formatFloat(v float64) string {
	if model.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return model.Missing, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

// parseInt accepts "3" and "3.0"; an empty cell is 0.
func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("parse %q as integer", s)
	}
	return int64(f), nil
}
