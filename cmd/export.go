package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/flatfile"
	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/summary"
)

var (
	exportOut       string
	exportFrom      string
	exportTo        string
	exportSummaries bool
	exportMinGames  int
)

// summaryJSON is the per-pitcher schema written by --summaries.
type summaryJSON struct {
	Player              string  `json:"player"`
	GamesPlayed         int     `json:"games_played"`
	FirstInningsPitched int     `json:"first_innings_pitched"`
	Strikeouts          int     `json:"strikeouts"`
	Walks               int     `json:"walks"`
	ERA                 float64 `json:"era"`
	WHIP                float64 `json:"whip"`
	HomeRunsAllowed     int     `json:"home_runs_allowed"`
	HitsAllowed         int     `json:"hits_allowed"`
	RunsAllowed         int     `json:"runs_allowed"`
	NRFIRecord          string  `json:"nrfi_record"`
	NRFIStreak          int     `json:"nrfi_streak"`
	KPct                float64 `json:"k_pct"`
	BBPct               float64 `json:"bb_pct"`
	BAA                 float64 `json:"baa"`
	OBP                 float64 `json:"obp"`
	SLG                 float64 `json:"slg"`
	OPS                 float64 `json:"ops"`
	NRFIRating          int     `json:"nrfi_rating"`
}

// summaryFile wraps the exported summaries with their provenance.
type summaryFile struct {
	GeneratedAt string        `json:"generated_at"`
	FromDate    string        `json:"from_date,omitempty"`
	ToDate      string        `json:"to_date,omitempty"`
	MinGames    int           `json:"min_games"`
	Pitchers    []summaryJSON `json:"pitchers"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored half-innings as CSV, or pitcher summaries as JSON",
	Long: `Writes stored half-inning records to a flat CSV file using the persisted column
order (missing values as empty cells). With --summaries, writes every pitcher's summary
and NRFI rating as JSON instead.

Examples:
  nrfi export --out half_innings.csv
  nrfi export --out june.csv --from-date 2024-06-01 --to-date 2024-06-30
  nrfi export --summaries --min-games 10 --out pitchers.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (required)")
	exportCmd.Flags().StringVar(&exportFrom, "from-date", "", "first game date, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to-date", "", "last game date, YYYY-MM-DD")
	exportCmd.Flags().BoolVar(&exportSummaries, "summaries", false, "write pitcher summaries as JSON")
	exportCmd.Flags().IntVar(&exportMinGames, "min-games", 1, "with --summaries, skip pitchers under this many first innings")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	for _, d := range []string{exportFrom, exportTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return fmt.Errorf("parse date %q: %w", d, err)
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.HalfInningsBetween(exportFrom, exportTo)
	if err != nil {
		return err
	}

	if !exportSummaries {
		if err := (flatfile.Writer{Path: exportOut}).WriteHalfInnings(records); err != nil {
			return fmt.Errorf("export records: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %d half-innings to %s\n", len(records), exportOut)
		return nil
	}

	board := summary.Leaderboard(records, exportMinGames)
	out := summaryFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		FromDate:    exportFrom,
		ToDate:      exportTo,
		MinGames:    exportMinGames,
		Pitchers:    make([]summaryJSON, 0, len(board)),
	}
	for _, s := range board {
		out.Pitchers = append(out.Pitchers, toSummaryJSON(s))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d pitcher summaries to %s\n", len(board), exportOut)
	return nil
}

func toSummaryJSON(s model.PlayerSummary) summaryJSON {
	return summaryJSON{
		Player:              s.PlayerName,
		GamesPlayed:         s.GamesPlayed,
		FirstInningsPitched: s.FirstInningsPitched,
		Strikeouts:          s.Strikeouts,
		Walks:               s.Walks,
		ERA:                 s.ERA,
		WHIP:                s.WHIP,
		HomeRunsAllowed:     s.HomeRunsAllowed,
		HitsAllowed:         s.HitsAllowed,
		RunsAllowed:         s.RunsAllowed,
		NRFIRecord:          s.NRFIRecord,
		NRFIStreak:          s.NRFIStreak,
		KPct:                s.StrikeoutRate,
		BBPct:               s.WalkRate,
		BAA:                 s.BAA,
		OBP:                 s.OBP,
		SLG:                 s.SLG,
		OPS:                 s.OPS,
		NRFIRating:          s.NRFIRating,
	}
}
