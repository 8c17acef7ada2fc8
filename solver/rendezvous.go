package solver

// simplifyRendezvous runs the five-barrier simplify sequence described by
// §4.11: every ring parks at Start, ring 0 alone runs the inprocessing
// pipeline against the ruler's shared clause set while the rest wait at
// Run, then every ring (including ring 0) rebuilds its local watch lists
// from the ruler's possibly-shrunk, possibly-rewritten formula before
// resuming search.
func (ru *Ruler) simplifyRendezvous(r *Ring) {
	if !ru.Barriers.Start.Rendezvous() {
		return
	}

	r.exportUnits()
	if !ru.Barriers.Unclone.Rendezvous() {
		return
	}

	if r.ID == 0 {
		ru.Simplify(r.Opts)
	}
	if !ru.Barriers.Run.Rendezvous() {
		return
	}

	r.rebuildFromRuler()
	if !ru.Barriers.Copy.Rendezvous() {
		return
	}

	r.conflictsSinceReduce = 0
	r.conflictsSinceRestart = 0
	r.conflictsSinceRephase = 0
	if r.ID == 0 {
		ru.conflictsAtLastSimplify = ru.totalConflicts.Load()
		ru.Stats.InprocessRuns++
	}
	ru.Barriers.End.Rendezvous()
}

// rebuildFromRuler discards this ring's watch lists and reconstructs them
// from the ruler's current clause set, following any variable compaction
// the last simplify round performed (§4.11 "Copy"). It backtracks the
// ring to decision level 0 first, so it may be called at any level.
func (r *Ring) rebuildFromRuler() {
	r.backtrack(0)

	newN := len(r.Ruler.inverseMap)
	r.nVars = newN
	r.Values = make([]int8, 2*newN)
	r.Vars = make([]VarRecord, newN)
	r.Trail = NewTrail(newN)
	r.Watches = NewWatchLists(newN)
	r.activity = make([]float64, newN)
	r.seen = make([]bool, newN)
	r.unassigned = newN
	r.level = 0

	r.Heap = NewScoreHeap(&r.Vars)
	r.Queue = NewStampQueue(newN)
	for v := Var(0); int(v) < newN; v++ {
		r.Heap.Push(v, 0)
		r.Queue.PushBack(v)
	}
	r.Queue.ResetSearch()

	for lit := 0; lit < len(r.Ruler.Values); lit++ {
		if r.Ruler.Values[lit] > 0 {
			l := Lit(lit)
			if r.Value(l) == 0 {
				r.assign(l, Reason{Kind: reasonUnit})
			}
		}
	}

	for lit, list := range r.Ruler.Binaries {
		for _, bw := range list {
			r.Watches.AddBinary(Lit(lit), bw.Other, bw.Redundant)
		}
	}
	for _, c := range r.Ruler.Clauses {
		if c.Garbage() || len(c.Lits) < 3 {
			continue
		}
		w0, w1 := c.Lits[0], c.Lits[1]
		w := Watch{Blocker: w1, Clause: c, Redundant: c.Redundant(), Sum: w0 ^ w1}
		r.Watches.AddLarge(w0, w)
		w.Blocker = w0
		r.Watches.AddLarge(w1, w)
	}

	r.Learnt = r.Learnt[:0]
}
