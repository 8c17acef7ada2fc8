// Package metrics registers optional prometheus gauges/counters over a
// running solve (domain-stack addition: conflicts, propagations,
// reductions, decisions, and shared-clause imports/exports, each labelled
// by ring — §9's
// "Logging & tracing" extended into a pull-based surface).
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xDarkicex/parasat/solver"
)

// Registry owns every metric this package exports, so a caller that
// doesn't want metrics never has to touch the default global registerer.
type Registry struct {
	conflicts     *prometheus.CounterVec
	propagations  *prometheus.CounterVec
	reductions    *prometheus.CounterVec
	imported      *prometheus.CounterVec
	exported      *prometheus.CounterVec
	decisions     *prometheus.CounterVec
}

// NewRegistry builds and registers every metric against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "conflicts_total", Help: "CDCL conflicts encountered, per ring.",
		}, []string{"ring"}),
		propagations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "propagations_total", Help: "Unit propagations performed, per ring.",
		}, []string{"ring"}),
		reductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "reductions_total", Help: "Learnt-clause database reductions, per ring.",
		}, []string{"ring"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "shared_clauses_imported_total", Help: "Clauses imported from peers, per ring.",
		}, []string{"ring"}),
		exported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "shared_clauses_exported_total", Help: "Clauses exported to peers, per ring.",
		}, []string{"ring"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parasat", Name: "decisions_total", Help: "Branching decisions made, per ring.",
		}, []string{"ring"}),
	}
	reg.MustRegister(r.conflicts, r.propagations, r.reductions, r.imported, r.exported, r.decisions)
	return r
}

// Observe adds one ring's Statistics totals to the registered counters.
// Each call adds the full totals again, so calling it more than once for
// the same ring counts the same events more than once.
func (r *Registry) Observe(ringID int, s solver.Statistics) {
	label := prometheus.Labels{"ring": ringLabel(ringID)}
	r.conflicts.With(label).Add(float64(s.Conflicts))
	r.propagations.With(label).Add(float64(s.Propagations))
	r.reductions.With(label).Add(float64(s.Reductions))
	r.imported.With(label).Add(float64(s.Imported))
	r.exported.With(label).Add(float64(s.Exported))
	r.decisions.With(label).Add(float64(s.Decisions))
}

func ringLabel(id int) string { return strconv.Itoa(id) }
