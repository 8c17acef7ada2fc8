package solver

// vivifyState remembers which redundant clauses still await vivification
// so successive rounds make progress instead of retrying everything.
type vivifyState struct {
	next int
}

func newVivifyState() *vivifyState { return &vivifyState{} }

// vivify implements §4.7 "Vivification": candidate redundant clauses
// (tier1/tier2, not yet vivified) are reordered by occurrence count, then
// their negated literals are decided one at a time; if that derives a
// conflict before every literal is used, the clause is shrunk to the
// literals actually needed. A clause found already satisfied part way is
// left unchanged.
func (r *Ring) vivify() {
	if r.vs == nil {
		r.vs = newVivifyState()
	}
	if r.level != 0 {
		return
	}

	candidates := r.vivifyCandidates()
	if len(candidates) == 0 {
		return
	}

	budget := 64
	for i := 0; i < len(candidates) && budget > 0; i++ {
		idx := (r.vs.next + i) % len(candidates)
		c := candidates[idx]
		if c.Garbage() || c.Vivified() {
			continue
		}
		budget--
		r.vivifyOne(c)
	}
	r.vs.next = (r.vs.next + len(candidates)) % (len(candidates) + 1)
}

func (r *Ring) vivifyCandidates() []*Clause {
	out := make([]*Clause, 0)
	for _, c := range r.Learnt {
		if c.Garbage() || c.Vivified() {
			continue
		}
		t := tierOf(false, c.Glue)
		if t == tierGlue1 || t == tierTier1 || t == tierTier2 {
			out = append(out, c)
		}
	}
	return out
}

// vivifyOne decides the negation of each literal of c in order; if that
// process conflicts, the literals actually used form a replacement clause,
// installed when it is strictly shorter than c. Reaching a literal that is
// already true stops the walk without replacing c.
func (r *Ring) vivifyOne(c *Clause) {
	ordered := append([]Lit(nil), c.Lits...)
	sortByOccurrence(ordered, r.Watches)

	used := make([]Lit, 0, len(ordered))
	conflicted := false
	for _, lit := range ordered {
		if r.Value(lit) > 0 {
			// Clause already satisfied by an earlier decision in this
			// probe prefix: nothing new needed from this literal onward.
			break
		}
		if r.Value(lit) < 0 {
			used = append(used, lit)
			continue
		}
		r.level++
		r.assign(lit.Not(), noReason)
		used = append(used, lit)
		if cf := r.propagate(); cf.Found {
			conflicted = true
			break
		}
	}
	r.backtrack(0)

	if conflicted && len(used) < len(c.Lits) {
		if len(used) == 2 {
			r.attachLearntBinary(used[0], used[1], true)
		} else {
			shrunk := NewClause(used, true, c.Glue, c.Origin)
			r.attachLearnt(shrunk)
		}
		c.MarkGarbage()
		r.Stats.Vivifications++
	}
	c.MarkVivified()
}

func sortByOccurrence(lits []Lit, wl *WatchLists) {
	occ := func(l Lit) int {
		return len(wl.binaries[l.Index()]) + len(wl.large[l.Index()])
	}
	for i := 1; i < len(lits); i++ {
		j := i
		for j > 0 && occ(lits[j]) > occ(lits[j-1]) {
			lits[j], lits[j-1] = lits[j-1], lits[j]
			j--
		}
	}
}
