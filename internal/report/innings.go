package report

import (
	"io"
	"strconv"

	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/storage"
)

// PrintInningsTable prints one row per half-inning in the order given.
// NRFI is "Y" when the hitting side did not score.
func PrintInningsTable(w io.Writer, records []model.HalfInningRecord) {
	table := newTable(w)
	table.Header("DATE", "GAME", "HALF", "PITCHER", "VS", "R", "H", "BB", "K", "HR", "OUTS",
		"AVG", "OBP", "SLG", "OPS", "xwOBA", "EV", "NRFI")

	for i := range records {
		r := &records[i]
		nrfi := cPoor.Sprint("N")
		if r.HittingRuns == 0 {
			nrfi = cGood.Sprint("Y")
		}
		table.Append(
			r.GameDate,
			strconv.FormatInt(r.GamePK, 10),
			string(r.Half),
			r.PlayerName,
			r.HittingTeam,
			num(r.HittingRuns, 0),
			strconv.Itoa(r.Hits),
			strconv.Itoa(r.Walks),
			strconv.Itoa(r.Count(model.Strikeout)),
			strconv.Itoa(r.Count(model.HomeRun)),
			strconv.Itoa(r.Outs),
			rate(r.AVG),
			rate(r.OBP),
			rate(r.SLG),
			rate(r.OPS),
			rate(r.EstimatedWOBA),
			num(r.LaunchSpeed, 1),
			nrfi,
		)
	}
	table.Render()
}

// PrintRunsTable prints ingest runs.
func PrintRunsTable(w io.Writer, runs []model.IngestRun) {
	table := newTable(w)
	table.Header("ID", "SOURCE", "START", "END", "READ", "KEPT", "WRITTEN", "CREATED")

	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append(
			id,
			r.Source,
			orDash(r.StartDate),
			orDash(r.EndDate),
			strconv.Itoa(r.EventsRead),
			strconv.Itoa(r.EventsKept),
			strconv.Itoa(r.HalfInningsWritten),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}

// PrintPitcherList prints stored pitchers with their sample size.
func PrintPitcherList(w io.Writer, pitchers []storage.PitcherCount) {
	table := newTable(w)
	table.Header("PITCHER", "ID", "1ST_INN", "FIRST", "LAST", "SAMPLE")

	for _, p := range pitchers {
		table.Append(
			p.Name,
			strconv.FormatInt(p.PitcherID, 10),
			strconv.Itoa(p.HalfInnings),
			p.FirstDate,
			p.LastDate,
			sampleFlag(p.HalfInnings),
		)
	}
	table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// PrintQueryResult prints raw query output with the column names as header.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}
