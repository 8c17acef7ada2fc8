package solver

import (
	"sync"
	"sync/atomic"
)

// Ruler is the shared-problem layer (C10): it owns the original clauses,
// occurrence lists, the global unit queue, the variable-compaction map,
// and the witness-reconstruction stack. Every worker (ring) builds its
// watch lists from it through rebuildFromRuler, all rings sharing the same
// *Clause payloads, and rings rendezvous back at it for inprocessing
// (§4.11).
type Ruler struct {
	NVars int

	// Root-level monotone assignment, read unlocked on the fast path by
	// all rings and written only under unitsMu (§5).
	Values []int8

	Clauses   []*Clause     // irredundant large clauses
	Binaries  [][]BinaryWatch // irredundant binaries, post-compaction owned jointly

	occurrences [][]int // per-literal index into Clauses, maintained during simplify only

	eliminate  []bool
	subsume    []bool
	eliminated []bool

	unitsMu sync.Mutex
	units   []Lit

	// extension is the witness-reconstruction stack: a flat sequence of
	// INVALID-separated groups (§3 "Ruler state").
	extension []Lit

	compactMap []Var // old index -> new index, InvalidVar if eliminated
	inverseMap []Var

	Barriers *BarrierSet

	terminate atomic.Bool
	winner    atomic.Pointer[Ring]
	status    atomic.Int32 // 0 unset, 10 SAT, 20 UNSAT

	Tracer DRATTracer

	// Stats accumulates inprocessing-only counters (subsumption, BVE,
	// dedup); per-ring search counters live in each Ring's own Statistics.
	Stats Statistics

	simplifyRounds int64
	conflictsAtLastSimplify int64
	totalConflicts atomic.Int64
}

// DRATTracer is the optional external sink the core invokes for every
// inference it performs (§6 "DRAT tracer"). A nil Tracer means proof
// logging is disabled.
type DRATTracer interface {
	AddClause(lits []Lit)
	DeleteClause(lits []Lit)
	AddEmpty()
}

// NewRuler allocates a ruler for nVars variables and threads workers. Every
// variable starts marked as both an eliminate and a subsume candidate so the
// first Simplify round considers the whole formula; later rounds narrow both
// marks to whatever the previous round actually touched (§4.11 steps 5-6).
func NewRuler(nVars, threads int) *Ruler {
	return &Ruler{
		NVars:      nVars,
		Values:     make([]int8, 2*nVars),
		eliminate:  allTrue(nVars),
		subsume:    allTrue(nVars),
		eliminated: make([]bool, nVars),
		Binaries:   make([][]BinaryWatch, 2*nVars),
		compactMap: identityMap(nVars),
		inverseMap: identityMap(nVars),
		Barriers:   NewBarrierSet(threads),
	}
}

func identityMap(n int) []Var {
	m := make([]Var, n)
	for i := range m {
		m[i] = Var(i)
	}
	return m
}

func allTrue(n int) []bool {
	m := make([]bool, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// markEliminateSubsume flags every variable in lits as a candidate for both
// the next bounded-variable-elimination and subsumption rounds, since its
// occurrence set just changed (§4.11 steps 5-6's "candidate"/"subsume-marked"
// language).
func (ru *Ruler) markEliminateSubsume(lits []Lit) {
	for _, l := range lits {
		v := l.Var()
		ru.eliminate[v] = true
		ru.subsume[v] = true
	}
}

// AddClause installs an original (irredundant) clause read from DIMACS; a
// 2-literal clause becomes a joint-owned binary instead of a heap object
// (§3 "Ownership").
func (ru *Ruler) AddClause(lits []Lit) {
	switch len(lits) {
	case 0:
		ru.status.Store(20)
	case 1:
		ru.pushUnit(lits[0])
	case 2:
		ru.Binaries[lits[0].Index()] = append(ru.Binaries[lits[0].Index()], BinaryWatch{Other: lits[1]})
		ru.Binaries[lits[1].Index()] = append(ru.Binaries[lits[1].Index()], BinaryWatch{Other: lits[0]})
	default:
		ru.Clauses = append(ru.Clauses, NewClause(lits, false, 0, -1))
	}
}

// pushUnit enqueues a root-level unit under the units mutex (§3 "units
// ring"); the mutex is held only for the duration of this call.
func (ru *Ruler) pushUnit(lit Lit) {
	ru.unitsMu.Lock()
	defer ru.unitsMu.Unlock()
	if ru.Values[lit.Index()] != 0 {
		return
	}
	ru.Values[lit.Index()] = 1
	ru.Values[lit.Not().Index()] = -1
	ru.units = append(ru.units, lit)
}

// recordFixed mirrors a ring-local level-0 assignment into the ruler's
// monotone fixings set.
func (ru *Ruler) recordFixed(lit Lit) {
	if ru.Values[lit.Index()] != 0 {
		return
	}
	ru.pushUnit(lit)
}

// drainUnits returns units not yet seen by cursor, and the new cursor.
func (ru *Ruler) drainUnits(cursor int) ([]Lit, int) {
	ru.unitsMu.Lock()
	defer ru.unitsMu.Unlock()
	if cursor >= len(ru.units) {
		return nil, cursor
	}
	out := append([]Lit(nil), ru.units[cursor:]...)
	return out, len(ru.units)
}

// Terminated reports the termination flag on the fast path (§4.12).
func (ru *Ruler) Terminated() bool { return ru.terminate.Load() }

func (ru *Ruler) setTerminate() { ru.terminate.Store(true) }

// isWinner reports whether r itself is the already-declared winner (used
// to let Run's loop condition short-circuit cleanly).
func (ru *Ruler) isWinner(r *Ring) bool {
	return ru.winner.Load() == r
}

// claimWinner attempts to atomically become the winner; only the first
// caller succeeds, and it sets the termination flag so every other ring
// observes it on its next check (§5, §4.12).
func (ru *Ruler) claimWinner(r *Ring, status int32) bool {
	if !ru.winner.CompareAndSwap(nil, r) {
		return false
	}
	ru.status.Store(status)
	ru.setTerminate()
	ru.Barriers.abortAll()
	return true
}

// Winner returns the ring that first reached SAT/UNSAT, or nil.
func (ru *Ruler) Winner() *Ring { return ru.winner.Load() }

// Status returns the final outcome once a winner exists: 0, 10, or 20.
func (ru *Ruler) Status() int32 { return ru.status.Load() }

// allClauseViews returns a flat snapshot of every clause (irredundant
// large + binaries) as plain literal slices, for the walker (§4.8) which
// needs to scan the whole formula rather than watch lists.
func (ru *Ruler) allClauseViews() [][]Lit {
	out := make([][]Lit, 0, len(ru.Clauses))
	for _, c := range ru.Clauses {
		if !c.Garbage() {
			out = append(out, c.Lits)
		}
	}
	seen := map[[2]Lit]bool{}
	for lit := 0; lit < len(ru.Binaries); lit++ {
		for _, bw := range ru.Binaries[lit] {
			a, b := Lit(lit), bw.Other
			if a > b {
				a, b = b, a
			}
			key := [2]Lit{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, []Lit{a, b})
		}
	}
	return out
}

// simplifyDue reports whether enough search has happened since the last
// inprocessing round to rendezvous again (§4.11's "periodically (ring
// rendezvous)").
func (ru *Ruler) simplifyDue() bool {
	total := ru.totalConflicts.Load()
	return total-ru.conflictsAtLastSimplify >= 5000
}
