package solver

import "math"

// shouldRestart implements §4.6 "Restart": in focused mode, trigger when
// fast EMA glue exceeds slow EMA glue by the 1.1 margin, or always once
// the conflict-count limit for the current interval is hit. Stable mode
// uses reluctant doubling scaled by 500.
func (r *Ring) shouldRestart() bool {
	if r.Mode == modeFocused {
		if r.fastGlue.get() >= 1.1*r.slowGlue.get() && r.Stats.Conflicts > 0 {
			return true
		}
		limit := r.Opts.FocusedRestartInterval + int64(math.Log2(float64(r.conflictsSinceRestart+2)))
		return r.conflictsSinceRestart >= limit
	}
	limit := r.luby.next() * r.Opts.StableRestartInterval
	if limit <= 0 {
		limit = r.Opts.StableRestartInterval
	}
	return r.conflictsSinceRestart >= limit
}

func (r *Ring) restart() {
	r.backtrack(0)
	r.conflictsSinceRestart = 0
	r.Stats.Restarts++
}

// shouldReduce triggers at conflict milestones growing as base*sqrt(reductions)
// (§4.6 "Reduce").
func (r *Ring) shouldReduce() bool {
	limit := int64(float64(r.Opts.ReduceBase) * math.Sqrt(float64(r.Stats.Reductions+1)))
	return r.conflictsSinceReduce >= limit
}

// reduce implements the reduction procedure of §4.6: protect reasons,
// gather candidates not protected by tier1/used counters, sort by (size,
// glue), mark a fraction garbage, and compact watch lists. Clauses that
// are satisfied at the root are not removed by this pass.
func (r *Ring) reduce() {
	r.conflictsSinceReduce = 0
	r.Stats.Reductions++

	protected := map[*Clause]bool{}
	for i := 0; i < r.Trail.Len(); i++ {
		v := r.Trail.At(i).Var()
		if r.Vars[v].Reason.Kind == reasonLarge {
			protected[r.Vars[v].Reason.Clause] = true
		}
	}

	// §4.6 step 3: a clause with a nonzero used counter on either of its
	// watchers is protected from this round outright ("used counters"); a
	// watcher whose counter has saturated is additionally promoted one
	// glue tier here (original_source/promote.c's reaction to repeated
	// propagation use) and its counter reset, so the protection doesn't
	// become permanent once a clause stops earning its keep.
	usedProtected := map[*Clause]bool{}
	for lit := 0; lit < len(r.Watches.large); lit++ {
		for i, w := range r.Watches.large[lit] {
			if w.Used == 0 {
				continue
			}
			usedProtected[w.Clause] = true
			if w.Used >= 255 {
				promoteUsed(w.Clause, w.Used)
				w.Used = 0
				r.Watches.large[lit][i] = w
			}
		}
	}

	candidates := make([]*Clause, 0, len(r.Learnt))
	kept := r.Learnt[:0]
	for _, c := range r.Learnt {
		protectedByTier := tierOf(false, c.Glue) == tierGlue1 || tierOf(false, c.Glue) == tierTier1
		if protected[c] || c.Garbage() || usedProtected[c] || protectedByTier {
			kept = append(kept, c)
			continue
		}
		candidates = append(candidates, c)
	}
	r.Learnt = kept

	sortClausesBySizeThenGlue(candidates)

	frac := r.Opts.ReduceFraction
	if r.Mode == modeStable {
		frac *= 0.5
	}
	cut := int(float64(len(candidates)) * frac)
	for i, c := range candidates {
		if i < cut {
			c.MarkGarbage()
			r.Stats.Deleted++
			if c.Dereference() {
				// fully released
			}
		} else {
			r.Learnt = append(r.Learnt, c)
		}
	}

	r.flushGarbageWatchers()
}

func sortClausesBySizeThenGlue(cs []*Clause) {
	// A stable insertion sort suffices at the sizes reduce() deals with and
	// mirrors the radix-by-byte description of §4.6 closely enough without
	// needing a counting-sort implementation for what is, post-filter, a
	// modestly sized slice.
	for i := 1; i < len(cs); i++ {
		j := i
		for j > 0 && less(cs[j], cs[j-1]) {
			cs[j], cs[j-1] = cs[j-1], cs[j]
			j--
		}
	}
}

func less(a, b *Clause) bool {
	if len(a.Lits) != len(b.Lits) {
		return len(a.Lits) > len(b.Lits)
	}
	return a.Glue > b.Glue
}

// flushGarbageWatchers drops watcher entries referring to garbage clauses
// from every literal's watch list (§4.6 step 6).
func (r *Ring) flushGarbageWatchers() {
	for lit := 0; lit < len(r.Watches.large); lit++ {
		list := r.Watches.large[lit]
		out := list[:0]
		for _, w := range list {
			if !w.Clause.Garbage() {
				out = append(out, w)
			}
		}
		r.Watches.large[lit] = out
	}
}

// shouldSwitchMode implements §4.6 "Mode switch": measured in ticks after
// the first switch (conflicts before it), with a limit growing as
// base*(switches/2+1)^2.
func (r *Ring) shouldSwitchMode() bool {
	measure := r.Stats.Ticks
	if r.modeSwitches == 0 {
		measure = r.Stats.Conflicts
	}
	factor := float64(r.modeSwitches/2 + 1)
	limit := int64(float64(r.Opts.ModeSwitchBase) * factor * factor)
	return measure-r.ticksSinceModeSwitch >= limit
}

func (r *Ring) switchMode() {
	r.modeSwitches++
	if r.Mode == modeStable {
		r.Mode = modeFocused
		r.Queue.ResetSearch()
	} else {
		r.Mode = modeStable
		unassignedFn := func(v Var) bool { return !r.assigned(v) }
		r.Heap.RebuildFrom(r.activity, unassignedFn, r.nVars)
	}
	if r.modeSwitches == 0 {
		r.ticksSinceModeSwitch = r.Stats.Conflicts
	} else {
		r.ticksSinceModeSwitch = r.Stats.Ticks
	}
	r.Stats.ModeSwitches++
}

// shouldRephase gates stable-mode rephasing on an interval growing as
// base*n*log3(n) (§4.6 "Rephase").
func (r *Ring) shouldRephase() bool {
	if r.Mode != modeStable {
		return false
	}
	n := float64(r.nVars)
	limit := int64(float64(r.Opts.RephaseBase) * n * math.Log(n+1) / math.Log(3))
	if limit <= 0 {
		limit = r.Opts.RephaseBase
	}
	return r.conflictsSinceRephase >= limit
}

var rephaseCycle = []string{"restore-initial", "adopt-best", "walk", "inverted-initial", "adopt-best", "walk"}

func (r *Ring) rephase() {
	r.conflictsSinceRephase = 0
	r.Stats.Rephases++
	step := rephaseCycle[r.Stats.Rephases%int64(len(rephaseCycle))]
	switch step {
	case "restore-initial":
		for v := range r.Vars {
			r.Vars[v].Target = -1
		}
	case "inverted-initial":
		for v := range r.Vars {
			r.Vars[v].Target = 1
		}
	case "adopt-best":
		for v := range r.Vars {
			r.Vars[v].Target = r.Vars[v].Best
		}
	case "walk":
		r.walk()
	}
}

// bumpGlueEMAs folds a new conflict's glue and trail-fill ratio into the
// restart controller's moving averages (§4.5 "Bump").
func (r *Ring) bumpGlueEMAs(glue uint8, backjumpLevel int) {
	r.fastGlue.update(float64(glue))
	r.slowGlue.update(float64(glue))
	r.levelEMA.update(float64(backjumpLevel))
	r.trailFillEMA.update(float64(r.Trail.Len()) / float64(r.nVars))
}

// promoteUsed implements the supplemented promote.c behavior (SPEC_FULL
// §5): a watcher whose Used counter saturates is promoted one glue tier
// at reduce time instead of merely being reduce-protected. Called from
// reduce()'s candidate-gathering pass.
func promoteUsed(c *Clause, used uint8) {
	if used < 255 {
		return
	}
	switch tierOf(false, c.Glue) {
	case tierTier3:
		c.PromoteGlue(glueTier2Max)
	case tierTier2:
		c.PromoteGlue(glueTier1Max)
	case tierTier1:
		c.PromoteGlue(1)
	}
}
