package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/config"
	"github.com/pable/nrfi-metrics/internal/logger"
)

var (
	dbPath   string
	cfgFile  string
	logLevel string

	// cfg is loaded before every command runs.
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "nrfi",
	Short: "First-inning (NRFI) pitcher metrics from statcast data",
	Long: `Aggregate statcast pitch logs into first-inning half-inning records, then summarize
pitchers and score how likely they are to keep the first inning scoreless.`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLogger,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (env: NRFI_*)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pitcherCmd)
	rootCmd.AddCommand(pitchersCmd)
	rootCmd.AddCommand(inningsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig layers defaults, the config file, NRFI_* env and flags, then installs the
// logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c
	dbPath = c.Storage.DBPath
	logCloser = logger.Init(c.Logging)
	return nil
}

func closeLogger(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}
