package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/nrfi-metrics/internal/model"
)

// halfInningColumns lists the half_innings columns in scan order.
var halfInningColumns = func() []string {
	cols := []string{
		"game_pk", "half", "game_date", "player_name", "pitcher",
		"home_team", "away_team", "p_throws", "fielding_team", "hitting_team",
		"launch_speed", "xwoba", "xba", "home_score", "away_score",
		"hitting_runs", "delta_run_exp", "barrel",
	}
	for _, o := range model.Outcomes {
		cols = append(cols, `"`+o.String()+`"`)
	}
	return append(cols,
		"hits", "outs", "walks", "xbh",
		"avg", "slg", "obp", "ops", "whip", "era", "games_played", "hr9",
	)
}()

var selectHalfInnings = "SELECT " + strings.Join(halfInningColumns, ", ") + " FROM half_innings"

// WriteHalfInnings stores records in a single transaction. Uses INSERT OR REPLACE so that
// re-ingesting a game keeps one row per (game, half).
func (db *DB) WriteHalfInnings(records []model.HalfInningRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT OR REPLACE INTO half_innings(%s) VALUES (%s)",
		strings.Join(halfInningColumns, ", "), placeholders(len(halfInningColumns)),
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(recordValues(r)...); err != nil {
			return fmt.Errorf("insert half-inning %d/%s: %w", r.GamePK, r.Half, err)
		}
	}
	return tx.Commit()
}

// HalfInningsForPitcher returns every stored record whose player name matches, oldest first.
func (db *DB) HalfInningsForPitcher(name string) ([]model.HalfInningRecord, error) {
	return db.queryHalfInnings(selectHalfInnings+`
		WHERE player_name = ?
		ORDER BY game_date, game_pk, half`, name)
}

// AllHalfInnings returns the whole table, oldest first.
func (db *DB) AllHalfInnings() ([]model.HalfInningRecord, error) {
	return db.queryHalfInnings(selectHalfInnings + " ORDER BY game_date, game_pk, half")
}

// HalfInningsBetween returns records with from <= game_date <= to. Empty bounds are open.
func (db *DB) HalfInningsBetween(from, to string) ([]model.HalfInningRecord, error) {
	if from == "" {
		from = "0000-00-00"
	}
	if to == "" {
		to = "9999-99-99"
	}
	return db.queryHalfInnings(selectHalfInnings+`
		WHERE game_date BETWEEN ? AND ?
		ORDER BY game_date, game_pk, half`, from, to)
}

func (db *DB) queryHalfInnings(query string, args ...any) ([]model.HalfInningRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query half_innings: %w", err)
	}
	defer rows.Close()

	var out []model.HalfInningRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func recordValues(r *model.HalfInningRecord) []any {
	vals := []any{
		r.GamePK, string(r.Half), r.GameDate, r.PlayerName, r.PitcherID,
		r.HomeTeam, r.AwayTeam, r.PThrows, r.FieldingTeam, r.HittingTeam,
		nullable(r.LaunchSpeed), nullable(r.EstimatedWOBA), nullable(r.EstimatedBA),
		nullable(r.HomeScore), nullable(r.AwayScore),
		nullable(r.HittingRuns), nullable(r.DeltaRunExp), nullable(r.Barrel),
	}
	for _, o := range model.Outcomes {
		vals = append(vals, r.Count(o))
	}
	return append(vals,
		r.Hits, r.Outs, r.Walks, r.XBH,
		nullable(r.AVG), nullable(r.SLG), nullable(r.OBP), nullable(r.OPS),
		nullable(r.WHIP), nullable(r.ERA), r.GamesPlayed, nullable(r.HR9),
	)
}

func scanRecord(rows *sql.Rows) (model.HalfInningRecord, error) {
	var (
		r    model.HalfInningRecord
		half string
		f    [8]sql.NullFloat64 // launch_speed .. barrel
		d    [7]sql.NullFloat64 // avg .. era, hr9
	)
	counts := make([]int, len(model.Outcomes))

	dest := []any{
		&r.GamePK, &half, &r.GameDate, &r.PlayerName, &r.PitcherID,
		&r.HomeTeam, &r.AwayTeam, &r.PThrows, &r.FieldingTeam, &r.HittingTeam,
		&f[0], &f[1], &f[2], &f[3], &f[4], &f[5], &f[6], &f[7],
	}
	for i := range counts {
		dest = append(dest, &counts[i])
	}
	dest = append(dest,
		&r.Hits, &r.Outs, &r.Walks, &r.XBH,
		&d[0], &d[1], &d[2], &d[3], &d[4], &d[5], &r.GamesPlayed, &d[6],
	)
	if err := rows.Scan(dest...); err != nil {
		return r, fmt.Errorf("scan half-inning: %w", err)
	}

	r.Half = model.Half(half)
	r.LaunchSpeed, r.EstimatedWOBA, r.EstimatedBA = value(f[0]), value(f[1]), value(f[2])
	r.HomeScore, r.AwayScore = value(f[3]), value(f[4])
	r.HittingRuns, r.DeltaRunExp, r.Barrel = value(f[5]), value(f[6]), value(f[7])
	for i, o := range model.Outcomes {
		r.Counts.Add(o, counts[i])
	}
	r.AVG, r.SLG, r.OBP, r.OPS = value(d[0]), value(d[1]), value(d[2]), value(d[3])
	r.WHIP, r.ERA, r.HR9 = value(d[4]), value(d[5]), value(d[6])
	return r, nil
}

// nullable maps the missing marker to SQL NULL.
func nullable(v float64) any {
	if model.IsMissing(v) {
		return nil
	}
	return v
}

func value(n sql.NullFloat64) float64 {
	if !n.Valid {
		return model.Missing
	}
	return n.Float64
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
