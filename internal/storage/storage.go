// Package storage keeps half-inning records and ingest runs in SQLite.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is the half-inning store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema. path may be
// ":memory:".
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases alive across calls.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Stats counts what the store holds.
type Stats struct {
	HalfInnings int
	Pitchers    int
	Runs        int
}

// Stats returns row counts for the half_innings and ingest_runs tables.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`
		SELECT (SELECT COUNT(*) FROM half_innings),
		       (SELECT COUNT(DISTINCT player_name) FROM half_innings),
		       (SELECT COUNT(*) FROM ingest_runs)`).Scan(&s.HalfInnings, &s.Pitchers, &s.Runs)
	if err != nil {
		return Stats{}, fmt.Errorf("count rows: %w", err)
	}
	return s, nil
}
