// Package statcast decodes Baseball Savant statcast CSV exports into pitch events.
package statcast

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/nrfi-metrics/internal/model"
)

// Columns every statcast export must carry.
var requiredColumns = []string{
	"game_pk", "game_date", "inning", "inning_topbot", "events",
	"home_team", "away_team", "player_name", "pitcher",
}

// Decode reads a statcast CSV with a header row. Empty, "NA" and "nan" cells are treated as
// missing; optional numeric columns that are absent from the header decode as missing.
func Decode(r io.Reader) ([]model.PitchEvent, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}

	var out []model.PitchEvent
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := rowReader{rec: rec, idx: idx, line: line}

		e := model.PitchEvent{
			GamePK:        row.integer("game_pk"),
			GameDate:      row.text("game_date"),
			Inning:        int(row.integer("inning")),
			Half:          model.Half(row.text("inning_topbot")),
			BatterID:      row.optInteger("batter"),
			PitcherID:     row.integer("pitcher"),
			PlayerName:    row.text("player_name"),
			HomeTeam:      row.text("home_team"),
			AwayTeam:      row.text("away_team"),
			PThrows:       row.text("p_throws"),
			LaunchSpeed:   row.number("launch_speed"),
			LaunchAngle:   row.number("launch_angle"),
			EstimatedWOBA: row.number("estimated_woba_using_speedangle"),
			EstimatedBA:   row.number("estimated_ba_using_speedangle"),
			Event:         row.text("events"),
			HomeScore:     row.number("home_score"),
			AwayScore:     row.number("away_score"),
			DeltaRunExp:   row.number("delta_run_exp"),
		}
		if row.err != nil {
			return nil, row.err
		}
		out = append(out, e)
	}
	return out, nil
}

// Open opens a statcast file, decompressing .gz and .zst files by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedCloser{Reader: dec, close: func() error { dec.Close(); return f.Close() }}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedCloser{Reader: gz, close: func() error { gz.Close(); return f.Close() }}, nil
	}
	return f, nil
}

// ReadFile opens and decodes a statcast file.
func ReadFile(path string) ([]model.PitchEvent, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()
	events, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return events, nil
}

type stackedCloser struct {
	io.Reader
	close func() error
}

func (s *stackedCloser) Close() error { return s.close() }

// rowReader extracts typed cells from one CSV row, keeping the first conversion error.
type rowReader struct {
	rec  []string
	idx  map[string]int
	line int
	err  error
}

func (r *rowReader) cell(col string) (string, bool) {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return "", false
	}
	v := strings.TrimSpace(r.rec[i])
	if isNull(v) {
		return "", false
	}
	return v, true
}

func (r *rowReader) text(col string) string {
	v, _ := r.cell(col)
	return v
}

func (r *rowReader) integer(col string) int64 {
	v, ok := r.cell(col)
	if !ok {
		r.fail(col, "empty value")
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Some exports write integer columns as "1.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			r.fail(col, err.Error())
			return 0
		}
		return int64(f)
	}
	return n
}

func (r *rowReader) optInteger(col string) int64 {
	if _, ok := r.cell(col); !ok {
		return 0
	}
	return r.integer(col)
}

func (r *rowReader) number(col string) float64 {
	v, ok := r.cell(col)
	if !ok {
		return model.Missing
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, err.Error())
		return model.Missing
	}
	return f
}

func (r *rowReader) fail(col, reason string) {
	if r.err == nil {
		r.err = fmt.Errorf("row %d column %s: %s", r.line, col, reason)
	}
}

func isNull(v string) bool {
	switch v {
	case "", "NA", "nan", "NaN", "null", "None":
		return true
	}
	return false
}
