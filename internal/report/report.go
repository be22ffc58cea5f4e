package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/rating"
)

var (
	cGood = color.New(color.FgGreen, color.Bold)
	cFair = color.New(color.FgYellow)
	cPoor = color.New(color.FgRed)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// RatingColor picks the color band for an NRFI rating: >= 70 green, >= 55 yellow, else red.
func RatingColor(r int) *color.Color {
	switch {
	case r >= 70:
		return cGood
	case r >= 55:
		return cFair
	default:
		return cPoor
	}
}

func ratingCell(r int) string {
	return RatingColor(r).Sprint(strconv.Itoa(r))
}

// PrintSummaryTable prints one row per pitcher with every summary statistic.
func PrintSummaryTable(w io.Writer, sums []model.PlayerSummary) {
	table := newTable(w)
	table.Header("PLAYER", "GP", "1ST_IP", "K", "BB", "ERA", "WHIP", "HR", "H", "R",
		"NRFI_REC", "STREAK", "K%", "BB%", "BAA", "OBP", "SLG", "OPS", "NRFI")

	for _, s := range sums {
		table.Append(
			s.PlayerName,
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.FirstInningsPitched),
			strconv.Itoa(s.Strikeouts),
			strconv.Itoa(s.Walks),
			fmt.Sprintf("%.2f", s.ERA),
			fmt.Sprintf("%.2f", s.WHIP),
			strconv.Itoa(s.HomeRunsAllowed),
			strconv.Itoa(s.HitsAllowed),
			strconv.Itoa(s.RunsAllowed),
			s.NRFIRecord,
			strconv.Itoa(s.NRFIStreak),
			fmt.Sprintf("%.2f%%", s.StrikeoutRate),
			fmt.Sprintf("%.2f%%", s.WalkRate),
			rate(s.BAA),
			rate(s.OBP),
			rate(s.SLG),
			rate(s.OPS),
			ratingCell(s.NRFIRating),
		)
	}
	table.Render()
}

// PrintBreakdownTable prints each rating factor's contribution for one pitcher.
func PrintBreakdownTable(w io.Writer, s model.PlayerSummary) {
	fmt.Fprintf(w, "\nRating breakdown: %s\n", s.PlayerName)
	table := newTable(w)
	table.Header("FACTOR", "WEIGHT", "NORMALIZED", "POINTS")

	var total float64
	for _, c := range rating.Breakdown(s) {
		total += c.Points
		table.Append(
			c.Name,
			fmt.Sprintf("%.2f", c.Weight),
			fmt.Sprintf("%.3f", c.Normalized),
			fmt.Sprintf("%.2f", c.Points),
		)
	}
	table.Footer("TOTAL", "", "", fmt.Sprintf("%.2f", total))
	table.Render()
}

// PrintLeaderboard prints ranked pitchers. Rows are expected in rank order.
func PrintLeaderboard(w io.Writer, sums []model.PlayerSummary) {
	table := newTable(w)
	table.Header("#", "PLAYER", "GP", "NRFI_REC", "STREAK", "K%", "BB%", "OBP", "OPS", "SAMPLE", "NRFI")

	for i, s := range sums {
		table.Append(
			strconv.Itoa(i+1),
			s.PlayerName,
			strconv.Itoa(s.GamesPlayed),
			s.NRFIRecord,
			strconv.Itoa(s.NRFIStreak),
			fmt.Sprintf("%.2f%%", s.StrikeoutRate),
			fmt.Sprintf("%.2f%%", s.WalkRate),
			rate(s.OBP),
			rate(s.OPS),
			sampleFlag(s.GamesPlayed),
			ratingCell(s.NRFIRating),
		)
	}
	table.Render()
}

// sampleFlag grades how many first innings back a summary.
func sampleFlag(n int) string {
	switch {
	case n >= 20:
		return "OK"
	case n >= 10:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// rate formats a baseball rate stat (".312"), or "—" when missing.
func rate(v float64) string {
	if model.IsMissing(v) {
		return "—"
	}
	return fmt.Sprintf("%.3f", v)
}

// num formats v with the given decimals, or "—" when missing.
func num(v float64, places int) string {
	if model.IsMissing(v) {
		return "—"
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}
