// Package query filters half-inning records with boolean CEL expressions, e.g.
//
//	hitting_runs == 0.0 && strikeout >= 2
package query

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/pable/nrfi-metrics/internal/model"
)

// celTypeNames are outcome labels that collide with CEL type identifiers. They are only
// reachable through the counts map.
var celTypeNames = map[string]bool{"double": true}

// Env declares one CEL variable per record column. Outcome counts use their statcast labels
// and are also available as counts["label"].
func Env() (*cel.Env, error) {
	opts := []cel.EnvOption{
		cel.Variable("game_pk", cel.IntType),
		cel.Variable("half", cel.StringType),
		cel.Variable("game_date", cel.StringType),
		cel.Variable("player_name", cel.StringType),
		cel.Variable("pitcher", cel.IntType),
		cel.Variable("home_team", cel.StringType),
		cel.Variable("away_team", cel.StringType),
		cel.Variable("p_throws", cel.StringType),
		cel.Variable("fielding_team", cel.StringType),
		cel.Variable("hitting_team", cel.StringType),

		cel.Variable("launch_speed", cel.DoubleType),
		cel.Variable("xwoba", cel.DoubleType),
		cel.Variable("xba", cel.DoubleType),
		cel.Variable("home_score", cel.DoubleType),
		cel.Variable("away_score", cel.DoubleType),
		cel.Variable("hitting_runs", cel.DoubleType),
		cel.Variable("delta_run_exp", cel.DoubleType),
		cel.Variable("barrel", cel.DoubleType),

		cel.Variable("hits", cel.IntType),
		cel.Variable("outs", cel.IntType),
		cel.Variable("walks", cel.IntType),
		cel.Variable("xbh", cel.IntType),
		cel.Variable("avg", cel.DoubleType),
		cel.Variable("slg", cel.DoubleType),
		cel.Variable("obp", cel.DoubleType),
		cel.Variable("ops", cel.DoubleType),
		cel.Variable("whip", cel.DoubleType),
		cel.Variable("era", cel.DoubleType),
		cel.Variable("hr9", cel.DoubleType),
		cel.Variable("counts", cel.MapType(cel.StringType, cel.IntType)),
	}
	for _, o := range model.Outcomes {
		if celTypeNames[o.String()] {
			continue
		}
		opts = append(opts, cel.Variable(o.String(), cel.IntType))
	}
	return cel.NewEnv(opts...)
}

// Filter is a compiled record predicate. The zero Filter matches everything.
type Filter struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks expr. An empty expression yields a match-all filter;
// an expression that does not evaluate to bool is rejected.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Filter{}, nil
	}
	env, err := Env()
	if err != nil {
		return nil, fmt.Errorf("build cel env: %w", err)
	}

	parsed, iss := env.Parse(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("parse %q: %w", expr, iss.Err())
	}
	checked, iss := env.Check(parsed)
	if iss.Err() != nil {
		return nil, fmt.Errorf("check %q: %w", expr, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q returns %s, want bool", expr, checked.OutputType())
	}

	program, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Match evaluates the filter against one record. Evaluation errors, such as ordering a
// missing value, count as no match.
func (f *Filter) Match(r *model.HalfInningRecord) bool {
	if f.program == nil {
		return true
	}
	out, _, err := f.program.Eval(Vars(r))
	if err != nil {
		return false
	}
	ok, isBool := out.Value().(bool)
	return isBool && ok
}

// Apply returns the records that match, in input order.
func (f *Filter) Apply(records []model.HalfInningRecord) []model.HalfInningRecord {
	if f.program == nil {
		return records
	}
	var out []model.HalfInningRecord
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Vars flattens a record into the activation map used by Env.
func Vars(r *model.HalfInningRecord) map[string]any {
	vars := map[string]any{
		"game_pk":       r.GamePK,
		"half":          string(r.Half),
		"game_date":     r.GameDate,
		"player_name":   r.PlayerName,
		"pitcher":       r.PitcherID,
		"home_team":     r.HomeTeam,
		"away_team":     r.AwayTeam,
		"p_throws":      r.PThrows,
		"fielding_team": r.FieldingTeam,
		"hitting_team":  r.HittingTeam,

		"launch_speed":  r.LaunchSpeed,
		"xwoba":         r.EstimatedWOBA,
		"xba":           r.EstimatedBA,
		"home_score":    r.HomeScore,
		"away_score":    r.AwayScore,
		"hitting_runs":  r.HittingRuns,
		"delta_run_exp": r.DeltaRunExp,
		"barrel":        r.Barrel,

		"hits":  int64(r.Hits),
		"outs":  int64(r.Outs),
		"walks": int64(r.Walks),
		"xbh":   int64(r.XBH),
		"avg":   r.AVG,
		"slg":   r.SLG,
		"obp":   r.OBP,
		"ops":   r.OPS,
		"whip":  r.WHIP,
		"era":   r.ERA,
		"hr9":   r.HR9,
	}
	counts := make(map[string]int64, len(model.Outcomes))
	for _, o := range model.Outcomes {
		counts[o.String()] = int64(r.Count(o))
		if !celTypeNames[o.String()] {
			vars[o.String()] = counts[o.String()]
		}
	}
	vars["counts"] = counts
	return vars
}
