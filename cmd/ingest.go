package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pable/nrfi-metrics/internal/aggregator"
	"github.com/pable/nrfi-metrics/internal/flatfile"
	"github.com/pable/nrfi-metrics/internal/metrics"
	"github.com/pable/nrfi-metrics/internal/model"
	"github.com/pable/nrfi-metrics/internal/storage"
)

// ingestJob describes one batch of raw events headed for the store.
type ingestJob struct {
	source    string
	startDate string
	endDate   string
	events    []model.PitchEvent
	csvOut    string // optional flat-file copy of this batch
}

// ingest aggregates job.events into the database (and the CSV file when set) and records
// the run.
func ingest(db *storage.DB, m *metrics.Metrics, job ingestJob) (aggregator.Result, error) {
	sinks := aggregator.MultiSink{db}
	if job.csvOut != "" {
		sinks = append(sinks, flatfile.Writer{Path: job.csvOut})
	}

	res, err := aggregator.Aggregate(job.events, sinks)
	if err != nil {
		return res, fmt.Errorf("aggregate: %w", err)
	}

	m.EventsRead.Add(float64(res.EventsRead))
	m.EventsKept.Add(float64(res.EventsKept))
	m.HalfInningsWritten.Add(float64(res.Written))
	logUnknownLabels(m, res.UnknownLabels)

	if job.startDate == "" || job.endDate == "" {
		job.startDate, job.endDate = dateSpan(job.events)
	}
	run := model.IngestRun{
		ID:                 uuid.NewString(),
		Source:             job.source,
		StartDate:          job.startDate,
		EndDate:            job.endDate,
		EventsRead:         res.EventsRead,
		EventsKept:         res.EventsKept,
		HalfInningsWritten: res.Written,
		CreatedAt:          time.Now(),
	}
	if err := db.InsertRun(run); err != nil {
		return res, err
	}
	slog.Info("ingest run stored", "run", run.ID, "source", run.Source,
		"events_read", res.EventsRead, "events_kept", res.EventsKept, "half_innings", res.Written)
	return res, nil
}

func logUnknownLabels(m *metrics.Metrics, unknown map[string]int) {
	labels := make([]string, 0, len(unknown))
	for l := range unknown {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		m.UnknownLabels.Add(float64(unknown[l]))
		slog.Warn("event label counted as other_out", "label", l, "events", unknown[l])
	}
}

// dateSpan returns the first and last game dates present in events.
func dateSpan(events []model.PitchEvent) (first, last string) {
	for _, e := range events {
		if e.GameDate == "" {
			continue
		}
		if first == "" || e.GameDate < first {
			first = e.GameDate
		}
		if e.GameDate > last {
			last = e.GameDate
		}
	}
	return first, last
}

// openDB creates the database directory when needed and opens the store.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// finishMetrics stamps the run and writes the textfile when one is configured.
func finishMetrics(m *metrics.Metrics, started time.Time) {
	m.Finish(started)
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		slog.Warn("metrics not written", "err", err)
	}
}

func printIngestResult(res aggregator.Result) {
	fmt.Fprintf(os.Stdout, "Events read: %d  |  first-inning PA events: %d  |  half-innings stored: %d\n",
		res.EventsRead, res.EventsKept, res.Written)
}
