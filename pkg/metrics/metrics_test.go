package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestListingMetricsExportsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewListingMetrics(reg)
	metrics.ObserveFetch(OutcomeOK, 120*time.Millisecond)
	metrics.ObserveFetch(OutcomeStale, 80*time.Millisecond)
	metrics.ObserveFetch(OutcomeStale, 90*time.Millisecond)
	metrics.ObserveFetch("", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "dealer_web_listing_fetch_total", "outcome", OutcomeStale); err != nil {
		t.Fatalf("fetch stale: %v", err)
	} else if got != 2 {
		t.Fatalf("expected stale=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "dealer_web_listing_fetch_total", "outcome", "unknown"); err != nil {
		t.Fatalf("fetch unknown: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "dealer_web_listing_fetch_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 4 {
		t.Fatalf("expected 4 duration samples")
	}
}

func TestWizardMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewWizardMetrics(reg)
	metrics.IncTransition("next")
	metrics.IncTransition("next")
	metrics.IncDraftWrite(OutcomeOK)
	metrics.IncSubmission(OutcomeError)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "dealer_web_wizard_transitions_total", "direction", "next"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected next=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "dealer_web_wizard_submissions_total", "outcome", OutcomeError); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error=1, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var listing *ListingMetrics
	listing.ObserveFetch(OutcomeOK, time.Second)
	NewWizardMetrics(nil).IncSubmission(OutcomeOK)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
