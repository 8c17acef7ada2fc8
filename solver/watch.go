package solver

// Watch indirects a watched literal to the large clause it watches, caching
// enough metadata that propagation rarely has to touch the clause payload
// itself (§3 "Watch / watcher"). The spec's C union of tagged binary
// pointer vs. heap clause is instead modeled the way §9's design note
// suggests for a memory-safe reimplementation: an explicit discriminated
// value. BinaryWatch below is the "Binary" arm; Watch is the "Large" arm.
type Watch struct {
	Blocker Lit    // literal whose truth lets propagation skip this watcher
	Clause  *Clause
	Redundant bool
	Used    uint8 // saturating; protects recently-useful clauses from reduce
	Middle  int32 // rotation cursor into Clause.Lits for the next search
	Sum     Lit   // Clause.Lits[w0] ^ Clause.Lits[w1]; recovers the other watch
}

// bumpUsed saturates at 255 the way Clause.Glue does.
func (w *Watch) bumpUsed() {
	if w.Used < 255 {
		w.Used++
	}
}

// otherWatched recovers the second watched literal without storing it
// directly, by XORing the caller's own literal out of Sum (§3).
func (w *Watch) otherWatched(self Lit) Lit {
	return w.Sum ^ self
}

// BinaryWatch is the value-typed arm for binary clauses: never heap
// allocated as a *Clause, carried inline in per-literal adjacency lists.
type BinaryWatch struct {
	Other     Lit
	Redundant bool
}

// reasonKind tags what kind of propagation justified a trail entry.
type reasonKind uint8

const (
	reasonDecision reasonKind = iota
	reasonUnit                // level-0 unit, no antecedent literals
	reasonBinary
	reasonLarge
)

// Reason is the variable record's antecedent link (§3 "Variable record").
// It is intentionally a small value type — no allocation — matching the
// teacher's preference for inline structs over interface boxing in hot
// paths (cf. sat/types.go's TrailEntry).
type Reason struct {
	Kind        reasonKind
	BinaryOther Lit
	Clause      *Clause
}

var noReason = Reason{Kind: reasonDecision}

func binaryReason(other Lit) Reason {
	return Reason{Kind: reasonBinary, BinaryOther: other}
}

func largeReason(c *Clause) Reason {
	return Reason{Kind: reasonLarge, Clause: c}
}

// WatchLists owns one ring's view of the formula's watched-literal
// structure: per-literal binary adjacency and per-literal large-clause
// watchers (§3 "Ownership": a ring owns its watch lists even when the
// clauses they point to are shared).
type WatchLists struct {
	binaries [][]BinaryWatch
	large    [][]Watch
}

// NewWatchLists allocates per-literal slots for nVars variables (2*nVars
// literal slots, positive and negative).
func NewWatchLists(nVars int) *WatchLists {
	return &WatchLists{
		binaries: make([][]BinaryWatch, 2*nVars),
		large:    make([][]Watch, 2*nVars),
	}
}

func (wl *WatchLists) Grow(nVars int) {
	for len(wl.binaries) < 2*nVars {
		wl.binaries = append(wl.binaries, nil)
		wl.large = append(wl.large, nil)
	}
}

func (wl *WatchLists) AddBinary(on Lit, other Lit, redundant bool) {
	wl.binaries[on.Index()] = append(wl.binaries[on.Index()], BinaryWatch{Other: other, Redundant: redundant})
}

func (wl *WatchLists) RemoveBinary(on Lit, other Lit) {
	list := wl.binaries[on.Index()]
	for i, bw := range list {
		if bw.Other == other {
			list[i] = list[len(list)-1]
			wl.binaries[on.Index()] = list[:len(list)-1]
			return
		}
	}
}

func (wl *WatchLists) AddLarge(on Lit, w Watch) {
	wl.large[on.Index()] = append(wl.large[on.Index()], w)
}

// removeLargeAt swap-removes the watcher at position i on literal lit's
// list; used by the propagator while iterating so the slice can be
// compacted in place.
func (wl *WatchLists) removeLargeAt(lit Lit, i int) {
	list := wl.large[lit.Index()]
	list[i] = list[len(list)-1]
	wl.large[lit.Index()] = list[:len(list)-1]
}
