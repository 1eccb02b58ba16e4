// Package metrics exposes Prometheus instruments for reconciliation runs.
// A nil *Recorder is valid and records nothing, so wiring stays optional in
// tests and one-off tooling.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"timecard-reconciliation-backend/internal/models"
)

type Recorder struct {
	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	punchesTotal   *prometheus.CounterVec
	matchedPunches prometheus.Gauge
	missingPunches *prometheus.GaugeVec
	oddPunches     prometheus.Gauge
	feedFailures   *prometheus.CounterVec
	skipsTotal     *prometheus.CounterVec
}

// NewRecorder registers the reconciliation instruments on the default
// registry. Call it once per process.
func NewRecorder() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciliation_runs_total",
			Help: "Reconciliation runs by type and outcome.",
		}, []string{"run_type", "outcome"}),
		runDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciliation_run_duration_seconds",
			Help:    "Wall time of a full reconciliation run.",
			Buckets: prometheus.DefBuckets,
		}),
		punchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciliation_punches_total",
			Help: "Punch events processed, labeled by source feed.",
		}, []string{"source"}),
		matchedPunches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reconciliation_matched_punches",
			Help: "Punch pairs matched across both feeds in the most recent run.",
		}),
		missingPunches: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "reconciliation_missing_punches",
			Help: "Unmatched punches from the most recent run, by direction.",
		}, []string{"direction"}),
		oddPunches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reconciliation_odd_punch_employees",
			Help: "Employees flagged with odd punch counts in the most recent run.",
		}),
		feedFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciliation_feed_failures_total",
			Help: "Feed fetches degraded to an empty result, by source.",
		}, []string{"source"}),
		skipsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciliation_skips_total",
			Help: "Rows degraded, excluded, or tolerated instead of aborting, by reason.",
		}, []string{"reason"}),
	}
}

func (r *Recorder) RunObserved(runType, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(runType, outcome).Inc()
	r.runDuration.Observe(seconds)
}

func (r *Recorder) PunchesIngested(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.punchesTotal.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) MatchedPunches(n int) {
	if r == nil {
		return
	}
	r.matchedPunches.Set(float64(n))
}

func (r *Recorder) MissingPunches(direction string, n int) {
	if r == nil {
		return
	}
	r.missingPunches.WithLabelValues(direction).Set(float64(n))
}

func (r *Recorder) OddPunchEmployees(n int) {
	if r == nil {
		return
	}
	r.oddPunches.Set(float64(n))
}

func (r *Recorder) FeedFailure(source string) {
	if r == nil {
		return
	}
	r.feedFailures.WithLabelValues(source).Inc()
}

// SkipsObserved mirrors a run's degradation counts onto the skip counter.
// Venue rewrites and fallbacks are recoveries, not skips, and stay out.
func (r *Recorder) SkipsObserved(d models.Diagnostics) {
	if r == nil {
		return
	}
	counts := []struct {
		reason string
		n      int
	}{
		{"degraded_timestamp_keys", d.DegradedTimestampKeys},
		{"events_without_timestamp", d.EventsWithoutTimestamp},
		{"events_without_employee", d.EventsWithoutEmployee},
		{"unclassified_events", d.UnclassifiedEvents},
		{"unparseable_pairing_times", d.UnparseablePairingTimes},
		{"payroll_events_filtered", d.PayrollEventsFiltered},
		{"payroll_events_off_roster", d.PayrollEventsOffRoster},
		{"venue_enrichment_gaps", d.VenueEnrichmentGaps},
		{"unmatched_check_outs", d.UnmatchedCheckOuts},
		{"dangling_check_ins", d.DanglingCheckIns},
		{"orphan_meal_punches", d.OrphanMealPunches},
		{"non_positive_shifts", d.NonPositiveShifts},
		{"duplicate_match_keys", d.DuplicateMatchKeys},
		{"event_type_conflicts", d.EventTypeConflicts},
		{"notify_failures", d.NotifyFailures},
	}
	for _, c := range counts {
		if c.n > 0 {
			r.skipsTotal.WithLabelValues(c.reason).Add(float64(c.n))
		}
	}
}
