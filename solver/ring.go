package solver

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// mode distinguishes the two decision-heuristic regimes (§3 "Heap &
// queue", §4.4, §4.6).
type mode uint8

const (
	modeFocused mode = iota
	modeStable
)

// Ring is one worker (C9): it encapsulates C1-C8 for a single thread and
// imports/exports shared clauses via the sharing fabric (C11). A ring owns
// its watch lists, heuristics, trail, and variable records (§3
// "Ownership"); it shares large redundant clause payloads by refcount and
// reads the ruler's root-level assignment without a lock on the fast path.
type Ring struct {
	ID     int
	Ruler  *Ruler
	Opts   Options
	Log    zerolog.Logger
	Stats  Statistics
	rng    *rand.Rand

	nVars int
	Values []int8 // literal-indexed: values[lit] > 0 means lit currently true
	Vars   []VarRecord
	Trail  *Trail
	Watches *WatchLists

	level int // current decision level

	Heap  *ScoreHeap
	Queue *StampQueue
	Mode  mode

	activity       []float64
	activityInc    float64
	activityDecay  float64

	unassigned int
	fixed      int // level-0 assigned count, mirrors ruler's monotone fixings

	Learnt []*Clause // clauses this ring has learnt (redundant, refcounted)

	// EMAs driving the restart/mode-switch controllers (§4.6).
	fastGlue, slowGlue ema
	levelEMA           ema
	trailFillEMA       ema

	conflictsSinceRestart  int64
	conflictsSinceReduce   int64
	conflictsSinceRephase  int64
	ticksSinceModeSwitch   int64
	modeSwitches           int64
	luby                   lubyState

	status int32 // 0 = undetermined, 10 = SAT, 20 = UNSAT

	randomDecisionsLeft int
	randomSeqCount       int64

	Fabric *Fabric

	seen []bool // scratch for conflict analysis, reused across calls
	ps   *probeState
	vs   *vivifyState
}

// NewRing builds a ring for nVars variables, id identifying it among its
// siblings for tracing and origin-tagging of learnt clauses.
func NewRing(id int, nVars int, ruler *Ruler, opts Options, logger zerolog.Logger) *Ring {
	r := &Ring{
		ID:            id,
		Ruler:         ruler,
		Opts:          opts,
		Log:           logger,
		rng:           rand.New(rand.NewSource(opts.RandomSeed + int64(id))),
		nVars:         nVars,
		Values:        make([]int8, 2*nVars),
		Vars:          make([]VarRecord, nVars),
		Trail:         NewTrail(nVars),
		Watches:       NewWatchLists(nVars),
		Mode:          modeStable,
		activity:      make([]float64, nVars),
		activityInc:   1.0,
		activityDecay: 0.95,
		unassigned:    nVars,
		fastGlue:      newEMA(3e-2),
		slowGlue:      newEMA(1e-5),
		levelEMA:      newEMA(1e-5),
		trailFillEMA:  newEMA(1e-5),
		luby:          newLubyState(),
		seen:          make([]bool, nVars),
	}
	r.Heap = NewScoreHeap(&r.Vars)
	r.Queue = NewStampQueue(nVars)
	for v := Var(0); int(v) < nVars; v++ {
		r.Heap.Push(v, 0)
		r.Queue.PushBack(v)
	}
	r.Queue.ResetSearch()
	return r
}

// Value reports the current truth value of lit: >0 true, <0 false, 0
// unknown.
func (r *Ring) Value(l Lit) int8 { return r.Values[l.Index()] }

// Assigned reports whether the given variable currently has a value.
func (r *Ring) assigned(v Var) bool {
	return r.Values[MkLit(v, false).Index()] != 0
}

// Level returns the current decision level.
func (r *Ring) Level() int { return r.level }

// Unassigned returns the count of still-unassigned variables.
func (r *Ring) Unassigned() int { return r.unassigned }

// Inconsistent/Satisfied helpers for the main loop (§4.9).
func (r *Ring) setInconsistent() { r.status = 20 }
func (r *Ring) setSatisfied()    { r.status = 10 }

// Status returns the ring's outcome: 0 unknown, 10 SAT, 20 UNSAT.
func (r *Ring) Status() int32 { return r.status }

// growTo extends all per-variable structures after the ruler introduces
// new variables (e.g. never happens post-parse in this design, but kept
// symmetric with the ruler's own Grow for clone-time parity).
func (r *Ring) growTo(n int) {
	if n <= r.nVars {
		return
	}
	for i := r.nVars; i < n; i++ {
		r.Vars = append(r.Vars, VarRecord{})
		r.activity = append(r.activity, 0)
		r.seen = append(r.seen, false)
	}
	r.Values = append(r.Values, make([]int8, 2*(n-r.nVars))...)
	r.Trail.Grow(n)
	r.Watches.Grow(n)
	r.Queue.Grow(n)
	r.unassigned += n - r.nVars
	r.nVars = n
}

// lubyState implements reluctant doubling for the stable-mode restart
// schedule (§4.6): u advances as (u & -u) == v.
type lubyState struct {
	u, v int64
}

func newLubyState() lubyState { return lubyState{u: 1, v: 1} }

// next advances the sequence and returns the next multiplier.
func (l *lubyState) next() int64 {
	if (l.u & -l.u) == l.v {
		l.u++
		l.v = 1
	} else {
		l.v *= 2
	}
	return l.v
}
