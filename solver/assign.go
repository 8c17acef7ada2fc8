package solver

// assign installs lit as true at the current decision level (or level 0 if
// reason implies a root fact), updates the trail, position table, and
// heuristic membership, per §4.2.
func (r *Ring) assign(lit Lit, reason Reason) {
	v := lit.Var()
	lvl := int32(r.level)
	if reason.Kind == reasonUnit {
		lvl = 0
	}

	r.Values[lit.Index()] = 1
	r.Values[lit.Not().Index()] = -1

	r.Vars[v].Level = lvl
	r.Vars[v].Reason = reason
	if r.Vars[v].Saved == 0 {
		r.Vars[v].Saved = sign(lit)
	}

	r.Trail.Push(lit)
	r.unassigned--

	if lvl == 0 {
		r.fixed++
		r.Ruler.recordFixed(lit)
	}

	// Decision structures are left as they are: an assigned variable may
	// stay in the heap until pickVariable pops and discards it, and the
	// VMTF queue simply leaves links in place and skips assigned ones
	// during search.
}

func sign(l Lit) int8 {
	if l.Sign() {
		return -1
	}
	return 1
}

// unassign reverts a single trail entry's effects: restores heap
// membership and saved phase, and advances the VMTF search cursor to
// cover the newly-candidate variable (§4.2).
func (r *Ring) unassign(lit Lit) {
	v := lit.Var()
	r.Vars[v].Saved = sign(lit)
	r.Values[lit.Index()] = 0
	r.Values[lit.Not().Index()] = 0
	r.unassigned++

	if r.Mode == modeStable {
		if !r.Heap.Contains(v) {
			r.Heap.Push(v, r.activity[v])
		}
	} else {
		r.Queue.BumpIfUnassigned(v, r.assigned)
	}
}

// backtrack pops trail entries above level, resets the propagate cursor to
// the new trail end, and leaves iterate/export clamped beneath it per the
// rewindCursors invariant (§4.2).
func (r *Ring) backtrack(level int) {
	if level >= r.level {
		return
	}
	n := r.Trail.Len()
	i := n
	for i > 0 {
		lit := r.Trail.At(i - 1)
		if int(r.Vars[lit.Var()].Level) <= level {
			break
		}
		r.unassign(lit)
		i--
	}
	r.Trail.ShrinkTo(i)
	r.level = level
}
