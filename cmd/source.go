package cmd

import (
	"io"

	"github.com/pable/nrfi-metrics/internal/flatfile"
	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/summary"
)

// recordSource is anything that can serve stored half-innings: the database or a flat file.
type recordSource interface {
	summary.Source
	AllHalfInnings() ([]model.HalfInningRecord, error)
}

// openSource reads the flat file at from when set, the database otherwise.
func openSource(from string) (recordSource, io.Closer, error) {
	if from != "" {
		t, err := flatfile.Load(from)
		if err != nil {
			return nil, nil, err
		}
		return t, nopCloser{}, nil
	}
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
