package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCompositionMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCompositionMetrics(reg)
	m.Observe("create_horse", true, 40*time.Millisecond)
	m.Observe("create_horse", false, 10*time.Millisecond)
	m.IncRollback("create_horse", true)
	m.IncTransferAction("promote")
	m.IncTransferAction("promote")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "equilog_composition_total", map[string]string{"operation": "create_horse", "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch total: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "equilog_composition_rollbacks_total", map[string]string{"operation": "create_horse", "outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch rollbacks: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rollbacks=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "equilog_ownership_transfer_actions_total", map[string]string{"action": "promote"}); err != nil {
		t.Fatalf("fetch transfers: %v", err)
	} else if got != 2 {
		t.Fatalf("expected promote=2, got %f", got)
	}

	mf := findMetricFamily(mfs, "equilog_composition_duration_seconds")
	if mf == nil || len(mf.GetMetric()) != 1 || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Fatalf("expected two duration samples for create_horse")
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var m *CompositionMetrics
	m.Observe("x", true, time.Second)
	m.IncRollback("x", false)
	NewCompositionMetrics(nil).IncTransferAction("promote")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
