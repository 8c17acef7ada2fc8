package solver

import "math"

// walkAnchor is one (avg-length, base) point from the fixed interpolation
// table §4.8 uses to pick how sharply break-count should bias literal
// selection.
type walkAnchor struct {
	avgLen float64
	base   float64
}

var walkAnchors = []walkAnchor{
	{avgLen: 2, base: 1.0},
	{avgLen: 3, base: 2.0},
	{avgLen: 5, base: 3.0},
	{avgLen: 10, base: 4.5},
	{avgLen: 20, base: 6.0},
}

func interpolateBase(avgLen float64) float64 {
	if avgLen <= walkAnchors[0].avgLen {
		return walkAnchors[0].base
	}
	last := walkAnchors[len(walkAnchors)-1]
	if avgLen >= last.avgLen {
		return last.base
	}
	for i := 1; i < len(walkAnchors); i++ {
		lo, hi := walkAnchors[i-1], walkAnchors[i]
		if avgLen <= hi.avgLen {
			t := (avgLen - lo.avgLen) / (hi.avgLen - lo.avgLen)
			return lo.base + t*(hi.base-lo.base)
		}
	}
	return last.base
}

// walk runs a SAT-style local search pass between CDCL phases (C8, §4.8).
// It flips literals chosen proportionally to exp(-breakCount/base) within
// a uniformly-picked unsatisfied clause, tracks the minimum unsatisfied
// count seen, and writes the best assignment back into Saved phases on
// exit.
func (r *Ring) walk() {
	formula := r.Ruler.allClauseViews()
	if len(formula) == 0 {
		return
	}

	assign := make([]int8, r.nVars)
	for v := 0; int(v) < r.nVars; v++ {
		if r.Vars[v].Saved != 0 {
			assign[v] = r.Vars[v].Saved
		} else {
			assign[v] = -1
		}
	}
	litTrue := func(l Lit) bool {
		v := l.Var()
		return (assign[v] > 0) != l.Sign()
	}

	unsat := make([]int, 0)
	for i, cl := range formula {
		sat := false
		for _, l := range cl {
			if litTrue(l) {
				sat = true
				break
			}
		}
		if !sat {
			unsat = append(unsat, i)
		}
	}

	totalLen := 0
	for _, cl := range formula {
		totalLen += len(cl)
	}
	avgLen := float64(totalLen) / float64(len(formula))
	base := interpolateBase(avgLen)

	best := len(unsat)
	bestAssign := append([]int8(nil), assign...)
	budget := int(0.02*float64(r.Stats.Ticks)) + 10000
	if budget < 1000 {
		budget = 1000
	}

	for step := 0; step < budget && len(unsat) > 0; step++ {
		r.Stats.WalkSteps++
		ci := unsat[r.rng.Intn(len(unsat))]
		cl := formula[ci]

		breakCounts := make([]int, len(cl))
		for i, l := range cl {
			breakCounts[i] = r.breakCount(formula, assign, l)
		}
		lit := r.pickByBreakWeight(cl, breakCounts, base)

		v := lit.Var()
		assign[v] = -assign[v]

		unsat = r.recomputeUnsat(formula, assign, litTrue2(assign))
		if len(unsat) < best {
			best = len(unsat)
			copy(bestAssign, assign)
			for vv := 0; int(vv) < r.nVars; vv++ {
				r.Vars[vv].Best = assign[vv]
			}
		}
	}

	for v := 0; int(v) < r.nVars; v++ {
		r.Vars[v].Saved = bestAssign[v]
	}
}

func litTrue2(assign []int8) func(Lit) bool {
	return func(l Lit) bool {
		v := l.Var()
		return (assign[v] > 0) != l.Sign()
	}
}

func (r *Ring) recomputeUnsat(formula [][]Lit, assign []int8, litTrue func(Lit) bool) []int {
	unsat := make([]int, 0)
	for i, cl := range formula {
		sat := false
		for _, l := range cl {
			if litTrue(l) {
				sat = true
				break
			}
		}
		if !sat {
			unsat = append(unsat, i)
		}
	}
	return unsat
}

// breakCount is the number of currently-satisfied clauses that would
// become unsatisfied if lit were flipped.
func (r *Ring) breakCount(formula [][]Lit, assign []int8, lit Lit) int {
	v := lit.Var()
	flipped := assign[v]
	assign[v] = -assign[v]
	litTrue := litTrue2(assign)
	broke := 0
	for _, cl := range formula {
		onlyThis := false
		satByOther := false
		for _, l := range cl {
			if l.Var() == v {
				onlyThis = litTrue(l)
				continue
			}
			if litTrue(l) {
				satByOther = true
			}
		}
		if onlyThis && !satByOther {
			broke++
		}
	}
	assign[v] = flipped
	return broke
}

func (r *Ring) pickByBreakWeight(cl []Lit, breakCounts []int, base float64) Lit {
	weights := make([]float64, len(cl))
	total := 0.0
	for i, bc := range breakCounts {
		w := math.Exp(-float64(bc) / base)
		weights[i] = w
		total += w
	}
	target := r.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if acc >= target {
			return cl[i]
		}
	}
	return cl[len(cl)-1]
}
