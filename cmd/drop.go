package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes the database file and its WAL companions.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database",
	Long: `Permanently delete the SQLite database with every stored half-inning and ingest run.
Flat CSV files written with --out or export are left alone. Re-run fetch or aggregate
afterwards to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		if s, err := dbStats(); err == nil {
			fmt.Fprintf(os.Stderr, "  %d half-innings, %d pitchers, %d ingest runs\n", s.HalfInnings, s.Pitchers, s.Runs)
		}
		fmt.Fprintln(os.Stderr, "Re-run with --force to confirm.")
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove database%s: %w", suffix, err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dbStats() (storage.Stats, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return storage.Stats{}, err
	}
	defer db.Close()
	return db.Stats()
}
