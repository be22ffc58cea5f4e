// Package metrics counts what each batch run did and writes the counters in the node_exporter
// textfile format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nrfi"

// Metrics owns a private registry so repeated runs in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	EventsRead         prometheus.Counter
	EventsKept         prometheus.Counter
	HalfInningsWritten prometheus.Counter
	SummariesComputed  prometheus.Counter
	UnknownLabels      prometheus.Counter
	FetchRequests      *prometheus.CounterVec
	RunDuration        prometheus.Gauge
	LastRun            prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_read_total",
			Help: "Statcast rows read.",
		}),
		EventsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_kept_total",
			Help: "First-inning plate-appearance events kept by the filter.",
		}),
		HalfInningsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "half_innings_written_total",
			Help: "Half-inning records written to the sinks.",
		}),
		SummariesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "summaries_computed_total",
			Help: "Pitcher summaries computed.",
		}),
		UnknownLabels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "unknown_event_labels_total",
			Help: "Events whose label was folded into other_out.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "savant_requests_total",
			Help: "Statcast search requests by HTTP status code.",
		}, []string{"code"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(
		m.EventsRead, m.EventsKept, m.HalfInningsWritten, m.SummariesComputed,
		m.UnknownLabels, m.FetchRequests, m.RunDuration, m.LastRun,
	)
	return m
}

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFetch counts one savant request by status code. Transport failures use code "error".
func (m *Metrics) ObserveFetch(status int) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.FetchRequests.WithLabelValues(code).Inc()
}

// Finish records the run duration and completion time.
func (m *Metrics) Finish(started time.Time) {
	now := time.Now()
	m.RunDuration.Set(now.Sub(started).Seconds())
	m.LastRun.Set(float64(now.Unix()))
}

// WriteTextfile writes every collector to path. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
