package solver

// probeState tracks the rolling cursor of the last-probed literal so
// successive simplify rounds don't always restart from literal 0 (§4.7
// "Failed-literal probing"). stamped is indexed by literal (both
// polarities), not by variable, since a successful probe of one polarity
// stamps the literals it implies, which may include either polarity of
// other variables.
type probeState struct {
	cursor  int
	stamped []bool
}

func newProbeState(n int) *probeState {
	return &probeState{stamped: make([]bool, 2*n)}
}

// probe runs one round of failed-literal probing with lifting (§4.7),
// walking every literal (both polarities of every variable) starting from
// a rolling cursor, the way `_examples/original_source/fail.c` iterates
// `probe` over all `2*ring->size` literals. For each active literal it
// assigns the literal at level 1 and propagates; a conflict means the
// negation is a forced unit. Since the packed literal encoding places a
// variable's two polarities at adjacent indices, two *consecutive*
// probed literals are exactly l and ¬l of the same variable; when both
// succeed and agree on an implied literal u, lifting yields a unit u via
// the resolvents [¬l,u], [l,u], [u].
func (r *Ring) probe() {
	if r.level != 0 {
		return
	}
	if r.ps == nil {
		r.ps = newProbeState(r.nVars)
	}
	total := 2 * r.nVars
	tried := 0
	var prevImplied map[Lit]bool
	var prevLit Lit = InvalidLit

	for tried < total {
		lit := Lit((r.ps.cursor + tried) % total)
		tried++
		if r.assigned(lit.Var()) || r.ps.stamped[lit.Index()] {
			continue
		}
		r.Stats.Probes++

		implied, failed := r.probeOnce(lit)
		if failed {
			r.learnUnit(lit.Not())
			prevLit = InvalidLit
			prevImplied = nil
			continue
		}
		for l := range implied {
			r.ps.stamped[l.Index()] = true
		}

		if prevLit.IsValid() && prevLit == lit.Not() {
			for u := range implied {
				if prevImplied[u] {
					r.learnUnit(u)
				}
			}
			prevLit = InvalidLit
			prevImplied = nil
		} else {
			prevLit = lit
			prevImplied = implied
		}
	}
	r.ps.cursor = (r.ps.cursor + tried) % total

	if r.Opts.EnableVivification {
		r.vivify()
	}
}

// probeOnce assigns lit at level 1, propagates, and reports the set of
// newly implied literals (success) or that propagation conflicted
// (failure).
func (r *Ring) probeOnce(lit Lit) (map[Lit]bool, bool) {
	start := r.Trail.Len()
	r.level = 1
	r.assign(lit, noReason)
	c := r.propagate()
	implied := map[Lit]bool{}
	for i := start; i < r.Trail.Len(); i++ {
		implied[r.Trail.At(i)] = true
	}
	r.backtrack(0)
	return implied, c.Found
}

// learnUnit installs a root-level unit derived by probing or lifting,
// propagating it immediately.
func (r *Ring) learnUnit(lit Lit) {
	if r.Value(lit) != 0 {
		return
	}
	r.level = 0
	r.assign(lit, Reason{Kind: reasonUnit})
	if c := r.propagate(); c.Found {
		r.setInconsistent()
		r.Ruler.claimWinner(r, 20)
	}
}
