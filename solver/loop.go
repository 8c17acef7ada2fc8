package solver

// attachLearnt installs a newly learnt clause into this ring. A large
// clause (length >= 3) gets two watchers with the UIP literal implied
// immediately (§4.5 "Backjump"); a one-literal clause is assigned as a
// root-level unit. Binaries never reach this function — learnFromConflict
// and vivifyOne route those through attachLearntBinary, since a binary is
// never a heap-allocated *Clause (§3 "Ownership").
func (r *Ring) attachLearnt(c *Clause) Lit {
	if len(c.Lits) == 1 {
		lit := c.Lits[0]
		r.level = 0
		r.assign(lit, Reason{Kind: reasonUnit})
		return lit
	}
	w0, w1 := c.Lits[0], c.Lits[1]
	w := Watch{Blocker: w1, Clause: c, Redundant: c.Redundant(), Sum: w0 ^ w1}
	r.Watches.AddLarge(w0, w)
	w.Blocker = w0
	r.Watches.AddLarge(w1, w)
	if c.Redundant() {
		r.Learnt = append(r.Learnt, c)
	}
	if r.Value(w0) == 0 && r.Value(w1) < 0 {
		r.assign(w0, largeReason(c))
	}
	return w0
}

// attachLearntBinary installs a learnt binary clause as a tagged,
// value-typed watcher pair — never a heap-allocated *Clause (§3
// "Ownership"; this is the arm of attachLearnt's old switch that used to
// heap-allocate binaries, now split out so the no-allocation path is the
// only path).
func (r *Ring) attachLearntBinary(a, b Lit, redundant bool) Lit {
	r.Watches.AddBinary(a, b, redundant)
	r.Watches.AddBinary(b, a, redundant)
	if r.Value(a) == 0 && r.Value(b) < 0 {
		r.assign(a, binaryReason(b))
	}
	return a
}

// learnFromConflict runs analysis, attaches the learnt clause, backjumps,
// updates EMAs/heuristics, and exports through the sharing fabric
// (§4.5 "Backjump" / §4.10 "Export").
func (r *Ring) learnFromConflict(c Conflict) {
	res := r.analyze(c)
	r.Stats.Conflicts++
	r.bumpGlueEMAs(res.Glue, res.BackjumpLevel)
	r.bumpActivities(res.Lits)

	r.backtrack(res.BackjumpLevel)

	switch len(res.Lits) {
	case 2:
		a, b := res.Lits[0], res.Lits[1]
		r.attachLearntBinary(a, b, true)
		r.Stats.Learned++
		if r.Fabric != nil {
			r.Fabric.ExportBinary(r.ID, a, b)
		}
	default:
		learnt := NewClause(res.Lits, len(res.Lits) > 1, res.Glue, int32(r.ID))
		r.attachLearnt(learnt)
		if len(res.Lits) > 1 {
			r.Stats.Learned++
			if r.Fabric != nil {
				r.Fabric.Export(r.ID, learnt)
			}
		}
	}

	r.conflictsSinceRestart++
	r.conflictsSinceReduce++
	r.conflictsSinceRephase++
}

// bumpActivities updates VSIDS scores (stable) or VMTF stamps (focused)
// for the variables touched by this conflict (§4.5 "Bump").
func (r *Ring) bumpActivities(lits []Lit) {
	if r.Mode == modeStable {
		for _, l := range lits {
			v := l.Var()
			r.activity[v] += r.activityInc
			r.Heap.Bump(v, r.activityInc)
		}
		r.activityInc /= r.activityDecay
	} else {
		for _, l := range lits {
			r.Queue.Restamp(l.Var())
		}
	}
}

// importShared pulls at most one clause from a random peer via the
// sharing fabric and installs it, reporting whether anything was
// imported (§4.9's "elif !import_shared(): decide()"). The binary
// mailbox is checked first since §4.10's tier order ranks binaries above
// every large-clause tier.
func (r *Ring) importShared() bool {
	if r.Fabric == nil {
		return false
	}
	if a, b, ok := r.Fabric.ImportBinary(r.ID, r.rng); ok {
		r.attachLearntBinary(a, b, true)
		r.Stats.Imported++
		return true
	}
	c, ok := r.Fabric.Import(r.ID, r.rng)
	if !ok {
		return false
	}
	r.attachLearnt(c)
	r.Stats.Imported++
	return true
}

// Run executes this ring's main loop (§4.9) until it becomes inconsistent,
// satisfied, or the rendezvous/termination protocol ends the search.
func (r *Ring) Run() {
	for r.status == 0 && !r.Ruler.isWinner(r) {
		if r.Ruler.Terminated() {
			return
		}

		conflict := r.propagate()
		switch {
		case conflict.Found:
			if r.level == 0 {
				r.setInconsistent()
				r.Ruler.claimWinner(r, 20)
				return
			}
			r.learnFromConflict(conflict)

		case r.unassigned == 0:
			r.setSatisfied()
			r.Ruler.claimWinner(r, 10)
			return

		case r.Trail.PendingExport():
			r.exportUnits()

		case r.Opts.WalkInitially && r.Stats.Conflicts == 0 && !r.Opts.NoWalk:
			r.walk()

		case r.Opts.ConflictLimit > 0 && r.Stats.Conflicts >= r.Opts.ConflictLimit:
			return

		case r.shouldReduce():
			r.reduce()

		case r.shouldRestart():
			r.restart()

		case r.shouldSwitchMode():
			r.switchMode()

		case r.shouldRephase():
			r.rephase()

		case r.Opts.EnableProbing && r.shouldProbe():
			r.probe()

		case !r.Opts.NoSimplify && r.Ruler.simplifyDue():
			r.Ruler.simplifyRendezvous(r)

		case !r.importShared():
			if !r.decide() {
				r.setSatisfied()
				r.Ruler.claimWinner(r, 10)
				return
			}
		}
	}
}

func (r *Ring) shouldProbe() bool {
	return r.level == 0 && r.Stats.Conflicts > 0 && r.Stats.Conflicts%2000 == 0
}

// exportUnits drains the trail's export cursor, publishing root-level
// units to the ruler's shared unit queue (§3 "Trail").
func (r *Ring) exportUnits() {
	for r.Trail.PendingExport() {
		lit := r.Trail.NextExport()
		if r.Vars[lit.Var()].Level == 0 {
			r.Ruler.pushUnit(lit)
		}
	}
}
