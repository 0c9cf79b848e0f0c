package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dealer_web"

// Listing outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

// ListingMetrics records listing fetches made on behalf of the filter page.
type ListingMetrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewListingMetrics registers the listing metrics on the provided registerer.
func NewListingMetrics(reg prometheus.Registerer) *ListingMetrics {
	if reg == nil {
		return &ListingMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_fetch_total",
		Help:      "Listing fetches by outcome (ok, error, stale).",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_fetch_duration_seconds",
		Help:      "Duration of listing fetches against the backend API.",
		Buckets:   prometheus.DefBuckets,
	})
	reg.MustRegister(fetches, duration)
	return &ListingMetrics{fetches: fetches, duration: duration}
}

// ObserveFetch records one resolved fetch.
func (m *ListingMetrics) ObserveFetch(outcome string, took time.Duration) {
	if m == nil || m.fetches == nil {
		return
	}
	m.fetches.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(took.Seconds())
}

// WizardMetrics records sell-car wizard activity.
type WizardMetrics struct {
	transitions *prometheus.CounterVec
	draftWrites *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// NewWizardMetrics registers the wizard metrics on the provided registerer.
func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	if reg == nil {
		return &WizardMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_transitions_total",
		Help:      "Wizard step changes by direction.",
	}, []string{"direction"})
	draftWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_draft_writes_total",
		Help:      "Draft persistence attempts by outcome.",
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_submissions_total",
		Help:      "Sell request submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(transitions, draftWrites, submissions)
	return &WizardMetrics{
		transitions: transitions,
		draftWrites: draftWrites,
		submissions: submissions,
	}
}

// IncTransition counts a step change ("next" or "previous").
func (m *WizardMetrics) IncTransition(direction string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncDraftWrite counts a draft write attempt.
func (m *WizardMetrics) IncDraftWrite(outcome string) {
	if m == nil || m.draftWrites == nil {
		return
	}
	m.draftWrites.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSubmission counts a terminal submission attempt.
func (m *WizardMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
