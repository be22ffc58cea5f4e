package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/query"
	"github.com/pable/nrfi-metrics/internal/report"
	"github.com/pable/nrfi-metrics/internal/storage"
	"github.com/pable/nrfi-metrics/internal/summary"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("nrfi shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("nrfi")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "pitchers":
			shellPitchers(db)
		case "runs":
			shellRuns(db)
		case "pitcher":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: pitcher <Last, First>[; <Last, First>...]")
				continue
			}
			shellPitcher(db, splitNames(rest))
		case "innings":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: innings <Last, First> [where <cel>]")
				continue
			}
			name, where, _ := strings.Cut(rest, " where ")
			shellInnings(db, strings.TrimSpace(name), where)
		case "leaderboard":
			minGames := cfg.Leaderboard.MinGames
			if rest != "" {
				n, err := strconv.Atoi(rest)
				if err != nil {
					cError.Fprintf(os.Stderr, "invalid min games %q\n", rest)
					continue
				}
				minGames = n
			}
			shellLeaderboard(db, minGames)
		case "sql":
			shellSQL(db, rest)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"pitchers", "list stored pitchers"},
		{"pitcher <Last, First>[; ...]", "summary and NRFI rating, with breakdown"},
		{"innings <Last, First> [where <cel>]", "a pitcher's first innings"},
		{"leaderboard [min-games]", "pitchers ranked by NRFI rating"},
		{"runs", "list ingest runs"},
		{"sql <query>", "raw SQL against the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// splitNames splits "Snell, Blake; Webb, Logan" into pitcher names.
func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ";") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func shellPitchers(db *storage.DB) {
	pitchers, err := db.ListPitchers(1)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(pitchers) == 0 {
		cMuted.Println("No pitchers stored yet.")
		return
	}
	report.PrintPitcherList(os.Stdout, pitchers)
}

func shellRuns(db *storage.DB) {
	runs, err := db.ListRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunsTable(os.Stdout, runs)
}

func shellPitcher(db *storage.DB, names []string) {
	sums, err := summarizeAll(db, names, metrics.New())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	printSummaries(sums, true)
}

func shellInnings(db *storage.DB, name, where string) {
	filter, err := query.Compile(where)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	records, err := db.HalfInningsForPitcher(name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	records = filter.Apply(records)
	if len(records) == 0 {
		cMuted.Printf("No first innings for %q.\n", name)
		return
	}
	report.PrintInningsTable(os.Stdout, records)
}

func shellLeaderboard(db *storage.DB, minGames int) {
	records, err := db.AllHalfInnings()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	board := summary.Leaderboard(records, minGames)
	if len(board) == 0 {
		cMuted.Printf("No pitchers with at least %d first innings.\n", minGames)
		return
	}
	if limit := cfg.Leaderboard.Limit; limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	report.PrintLeaderboard(os.Stdout, board)
}

func shellSQL(db *storage.DB, q string) {
	if q == "" {
		cError.Fprintln(os.Stderr, "usage: sql <query>")
		return
	}
	cols, rows, err := db.QueryRaw(q)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("(no rows)")
		return
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
}
