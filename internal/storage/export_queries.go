package storage

import (
	"fmt"
	"strconv"
)

// PitcherCount holds a pitcher name and the number of stored first innings.
type PitcherCount struct {
	Name        string
	PitcherID   int64
	HalfInnings int
	FirstDate   string // "YYYY-MM-DD"
	LastDate    string
}

// ListPitchers returns every pitcher with at least minGames stored half-innings,
// most half-innings first.
func (db *DB) ListPitchers(minGames int) ([]PitcherCount, error) {
	rows, err := db.conn.Query(`
		SELECT player_name, MAX(pitcher), COUNT(*), MIN(game_date), MAX(game_date)
		FROM half_innings
		GROUP BY player_name
		HAVING COUNT(*) >= ?
		ORDER BY COUNT(*) DESC, player_name`, minGames)
	if err != nil {
		return nil, fmt.Errorf("list pitchers: %w", err)
	}
	defer rows.Close()

	var out []PitcherCount
	for rows.Next() {
		var p PitcherCount
		if err := rows.Scan(&p.Name, &p.PitcherID, &p.HalfInnings, &p.FirstDate, &p.LastDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
// NULL cells come back as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
