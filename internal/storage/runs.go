package storage

import (
	"fmt"
	"time"

	"github.com/pable/nrfi-metrics/internal/model"
)

// InsertRun records one ingest invocation.
func (db *DB) InsertRun(run model.IngestRun) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO ingest_runs(id, source, start_date, end_date,
			events_read, events_kept, half_innings_written, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.StartDate, run.EndDate,
		run.EventsRead, run.EventsKept, run.HalfInningsWritten,
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert ingest run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns ingest runs, newest first.
func (db *DB) ListRuns() ([]model.IngestRun, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, start_date, end_date, events_read, events_kept,
			half_innings_written, created_at
		FROM ingest_runs
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	var out []model.IngestRun
	for rows.Next() {
		var (
			r       model.IngestRun
			created string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.StartDate, &r.EndDate,
			&r.EventsRead, &r.EventsKept, &r.HalfInningsWritten, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
