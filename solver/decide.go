package solver

// decide picks and assigns the next decision literal, per §4.4. It returns
// false if every variable is already assigned (the caller should treat
// that as SAT).
func (r *Ring) decide() bool {
	v, ok := r.pickVariable()
	if !ok {
		return false
	}

	r.level++
	lit := MkLit(v, r.decidePhase(v))
	r.Stats.Decisions++
	r.assign(lit, noReason)
	return true
}

func (r *Ring) pickVariable() (Var, bool) {
	if r.randomBurstDue() {
		if v, ok := r.randomUnassignedVariable(); ok {
			r.randomDecisionsLeft--
			return v, true
		}
	}

	if r.Mode == modeStable {
		for r.Heap.Len() > 0 {
			v := r.Heap.Pop()
			if !r.assigned(v) {
				return v, true
			}
		}
		return 0, false
	}

	v := r.Queue.Next(r.assigned)
	if !v.IsValidVar() {
		return 0, false
	}
	return v, true
}

// randomBurstDue implements the "random decision sequence" schedule: every
// 997 decisions (a fixed prime period standing in for an nlogn cadence) a
// fresh burst of 5 random decisions is due (§4.4).
func (r *Ring) randomBurstDue() bool {
	if r.randomDecisionsLeft > 0 {
		return true
	}
	const burstEvery = 997 // prime period approximating an nlogn cadence
	if r.Stats.Decisions > 0 && r.Stats.Decisions%burstEvery == 0 {
		r.randomSeqCount++
		r.randomDecisionsLeft = 5
		return true
	}
	return false
}

// randomUnassignedVariable picks uniformly among unassigned variables via
// a modular step coprime with the variable count (§4.4).
func (r *Ring) randomUnassignedVariable() (Var, bool) {
	if r.unassigned == 0 {
		return 0, false
	}
	n := r.nVars
	start := Var(r.rng.Intn(n))
	step := Var(1 + r.rng.Intn(n))
	for gcdInt(int(step), n) != 1 {
		step++
		if int(step) >= 2*n {
			step = 1
			break
		}
	}
	v := start
	for i := 0; i < n; i++ {
		if !r.assigned(v) {
			return v, true
		}
		v = Var((int(v) + int(step)) % n)
	}
	return 0, false
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// decidePhase implements the phase policy (§4.4): stable mode prefers
// target (best partial assignment seen), otherwise saved (last full
// assignment), otherwise a fixed initial phase.
func (r *Ring) decidePhase(v Var) bool {
	rec := r.Vars[v]
	var p int8
	if r.Mode == modeStable && rec.Target != 0 {
		p = rec.Target
	} else if rec.Saved != 0 {
		p = rec.Saved
	} else {
		p = -1 // default initial phase: negative, matching the teacher's
		// conservative default of "off" for unseen booleans.
	}
	return p < 0
}
