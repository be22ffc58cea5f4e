// Package flatfile reads and writes the half-inning table as a flat CSV file.
package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pable/nrfi-metrics/internal/model"
)

// Write encodes records with the persisted header. Missing values become empty cells.
func Write(w io.Writer, records []model.HalfInningRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for i := range records {
		for j, c := range columns {
			row[j] = c.get(&records[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a persisted table. Columns are matched by header name; columns absent from
// the file read as empty cells.
func Read(r io.Reader) ([]model.HalfInningRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, req := range []string{"game_pk", "inning_topbot", "player_name"} {
		if _, ok := index[req]; !ok {
			return nil, fmt.Errorf("missing required column %q", req)
		}
	}

	var out []model.HalfInningRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		var rec model.HalfInningRecord
		for _, c := range columns {
			cell := ""
			if i, ok := index[c.name]; ok && i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if err := c.set(&rec, cell); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, c.name, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Writer is a sink that replaces the file at Path with each batch it is given.
type Writer struct {
	Path string
}

// WriteHalfInnings writes records to a temporary file and renames it over Path.
func (w Writer) WriteHalfInnings(records []model.HalfInningRecord) error {
	if dir := filepath.Dir(w.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(w.Path), ".halfinnings-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return fmt.Errorf("rename %s: %w", w.Path, err)
	}
	return nil
}

// Table is a persisted table loaded into memory.
type Table struct {
	Records []model.HalfInningRecord
}

// Load reads the table at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Table{Records: records}, nil
}

// HalfInningsForPitcher returns the records whose player name matches, in file order.
func (t *Table) HalfInningsForPitcher(name string) ([]model.HalfInningRecord, error) {
	var out []model.HalfInningRecord
	for _, r := range t.Records {
		if r.PlayerName == name {
			out = append(out, r)
		}
	}
	return out, nil
}

// AllHalfInnings returns every record in file order.
func (t *Table) AllHalfInnings() ([]model.HalfInningRecord, error) {
	return t.Records, nil
}
