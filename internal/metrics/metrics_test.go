package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/xDarkicex/parasat/solver"
)

func TestObserveRecordsPerRingCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.Observe(0, solver.Statistics{Conflicts: 7, Propagations: 42, Imported: 3, Exported: 2})

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var conflicts float64
	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() != "parasat_conflicts_total" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			if hasLabel(m, "ring", "0") {
				conflicts = m.GetCounter().GetValue()
			}
		}
	}
	if !found {
		t.Fatal("parasat_conflicts_total not registered")
	}
	if conflicts != 7 {
		t.Fatalf("conflicts = %v, want 7", conflicts)
	}
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
