// Package metrics holds the Prometheus counters of batch ingestion runs.
// Runs are short lived, so the registry is written to a node_exporter
// textfile instead of being scraped.
package metrics

import (
	"fmt"

	"eclass/reconciler/jle"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File outcomes.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

const strategyNone = "none"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion metrics
	FilesTotal            *prometheus.CounterVec
	CoursesTotal          *prometheus.CounterVec
	LecturerStrategyTotal *prometheus.CounterVec
	IngestDuration        prometheus.Histogram
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		registry: registry,

		FilesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eclass_ingest_files_total",
				Help: "Total number of files seen by ingestion, by outcome",
			},
			[]string{"status"}, // status: processed, failed, skipped
		),

		CoursesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eclass_ingest_courses_total",
				Help: "Total number of course records stored, by source format",
			},
			[]string{"source"}, // source: jle, csv
		),

		LecturerStrategyTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eclass_decoder_lecturer_strategy_total",
				Help: "Course records by the lecturer heuristic that fired",
			},
			[]string{"strategy"}, // strategy: primary, fallback, none
		),

		IngestDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eclass_ingest_duration_seconds",
				Help:    "Duration of a whole ingestion run",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),
	}
}

// RecordFile counts one file with the given outcome.
func (m *Metrics) RecordFile(status string) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(status).Inc()
}

// RecordCourses counts stored records and the lecturer heuristic used for
// each.
func (m *Metrics) RecordCourses(source string, records []jle.CourseRecord) {
	if m == nil {
		return
	}
	m.CoursesTotal.WithLabelValues(source).Add(float64(len(records)))
	for _, rec := range records {
		strategy := rec.LecturerStrategy
		if strategy == jle.StrategyNone {
			strategy = strategyNone
		}
		m.LecturerStrategyTotal.WithLabelValues(strategy).Inc()
	}
}

// ObserveIngest records the duration of a run in seconds.
func (m *Metrics) ObserveIngest(seconds float64) {
	if m == nil {
		return
	}
	m.IngestDuration.Observe(seconds)
}

// WriteTextfile writes the registry in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
