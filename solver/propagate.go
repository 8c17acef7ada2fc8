package solver

// Conflict reports a falsified clause discovered during propagation: the
// kind (binary/large) and enough information for analyze() to resolve
// against it.
type Conflict struct {
	Found  bool
	Binary bool
	Lit    Lit // the literal whose negation triggered this (binary arm)
	Other  Lit
	Clause *Clause
}

// propagate runs two-watched-literal BCP until fixpoint or a conflict
// (§4.3). It drains the trail's propagate cursor, visiting the binary
// adjacency list first (cheap) and then the large-clause watchers with
// middle-pointer rotation.
func (r *Ring) propagate() Conflict {
	for !r.Trail.Propagated() {
		lit := r.Trail.NextToPropagate()
		notLit := lit.Not()
		r.Stats.Propagations++

		if c, ok := r.propagateBinaries(notLit); ok {
			return c
		}
		if c, ok := r.propagateLarge(notLit); ok {
			return c
		}
	}
	return Conflict{}
}

func (r *Ring) propagateBinaries(notLit Lit) (Conflict, bool) {
	for _, bw := range r.Watches.binaries[notLit.Index()] {
		r.Stats.Ticks++
		v := r.Value(bw.Other)
		switch {
		case v < 0:
			return Conflict{Found: true, Binary: true, Lit: notLit, Other: bw.Other}, true
		case v == 0:
			r.assign(bw.Other, binaryReason(notLit))
		}
	}
	return Conflict{}, false
}

func (r *Ring) propagateLarge(notLit Lit) (Conflict, bool) {
	i := 0
	for i < len(r.Watches.large[notLit.Index()]) {
		w := r.Watches.large[notLit.Index()][i]
		r.Stats.Ticks++

		if r.Value(w.Blocker) > 0 {
			i++
			continue
		}

		other := w.otherWatched(notLit)
		lits := w.Clause.Lits
		n := len(lits)

		replaced := false
		start := int(w.Middle)
		for step := 0; step < n; step++ {
			idx := (start + step) % n
			cand := lits[idx]
			if cand == notLit || cand == other {
				continue
			}
			if r.Value(cand) >= 0 {
				// Found a replacement watch: rotate and move to cand's list.
				w.Middle = int32((idx + 1) % n)
				w.Sum = cand ^ other
				w.Blocker = other
				r.Watches.removeLargeAt(notLit, i)
				r.Watches.AddLarge(cand, w)
				replaced = true
				break
			}
		}
		if replaced {
			continue // swap-remove put a different watcher at index i
		}

		valOther := r.Value(other)
		if valOther < 0 {
			return Conflict{Found: true, Clause: w.Clause}, true
		}
		if valOther == 0 {
			r.assign(other, largeReason(w.Clause))
			w.bumpUsed()
			r.Watches.large[notLit.Index()][i] = w
		}
		i++
	}
	return Conflict{}, false
}
