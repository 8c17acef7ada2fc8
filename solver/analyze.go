package solver

// AnalysisResult is what analyze() hands back to the main loop: the
// learnt clause's literals (UIP negation first), the glue, and the level
// to backjump to (§4.5).
type AnalysisResult struct {
	Lits            []Lit
	Glue            uint8
	BackjumpLevel   int
	UIP             Lit
}

// analyze performs first-UIP resolution starting from a conflict,
// following §4.5 steps 1-3, then runs minimize/shrink post-processing.
func (r *Ring) analyze(c Conflict) AnalysisResult {
	for i := range r.seen {
		r.seen[i] = false
	}
	levelsSeen := map[int32]bool{}

	learnt := make([]Lit, 0, 8)
	open := 0
	currentLevel := int32(r.level)

	mark := func(lit Lit) {
		v := lit.Var()
		if r.seen[v] {
			return
		}
		lvl := r.Vars[v].Level
		if lvl == 0 {
			return // root-fixed literals never enter the learnt clause
		}
		r.seen[v] = true
		if lvl == currentLevel {
			open++
		} else {
			// glue (LBD) counts only the distinct levels of the block
			// (the non-UIP literals), matching
			// _examples/original_source/analyze.c's ANALYZE_LITERAL
			// macro, which increments glue only in this branch — the
			// conflict/current level itself is never counted. This is
			// what makes "glue == 1" a meaningful, reachable precondition
			// for §4.5's "Shrink": it means the whole block shares one
			// single lower level, not that the clause has only one
			// level in total.
			levelsSeen[lvl] = true
			learnt = append(learnt, lit)
		}
	}

	for _, lit := range r.conflictLiterals(c) {
		mark(lit)
	}

	idx := r.Trail.Len()
	var uip Lit = InvalidLit
	for {
		idx--
		lit := r.Trail.At(idx)
		v := lit.Var()
		if !r.seen[v] {
			continue
		}
		open--
		if open == 0 {
			uip = lit
			break
		}
		r.seen[v] = false
		for _, rl := range r.reasonLiterals(r.Vars[v].Reason, lit) {
			mark(rl)
		}
	}

	full := append([]Lit{uip.Not()}, learnt...)
	glue := uint8(len(levelsSeen))

	// §4.5 post-processing: Shrink and Minimize are alternatives, not
	// both applied. Shrink only ever fires for glue==1 clauses of size
	// > 2 (a single-level block collapsible to one further UIP);
	// everything else (including any clause Shrink declines, e.g.
	// because resolution crosses into a second level) falls through to
	// the generic Minimize pass.
	shrunk := false
	if glue == 1 && len(full) > 2 {
		if shrunkFull, ok := r.shrink(full); ok {
			full = shrunkFull
			shrunk = true
		}
	}
	if !shrunk && len(full) > 2 {
		full = r.minimize(full, levelsSeen)
	}

	backjump := r.secondHighestLevel(full, currentLevel)

	return AnalysisResult{Lits: full, Glue: glue, BackjumpLevel: backjump, UIP: uip}
}

// conflictLiterals returns the literals of the falsified clause/binary
// that triggered the conflict.
func (r *Ring) conflictLiterals(c Conflict) []Lit {
	if c.Binary {
		return []Lit{c.Lit, c.Other}
	}
	return c.Clause.Lits
}

// reasonLiterals returns the antecedent literals implying lit (excluding
// lit itself), for the trail-backward walk.
func (r *Ring) reasonLiterals(reason Reason, lit Lit) []Lit {
	switch reason.Kind {
	case reasonBinary:
		return []Lit{reason.BinaryOther}
	case reasonLarge:
		out := make([]Lit, 0, len(reason.Clause.Lits)-1)
		for _, l := range reason.Clause.Lits {
			if l != lit {
				out = append(out, l)
			}
		}
		return out
	default:
		return nil
	}
}

// shrink attempts §4.5's "Shrink": for a glue == 1 clause, every block
// literal (full[1:]) shares a single lower decision level, so the whole
// block can be collapsed to just that level's own first UIP, the way
// `_examples/original_source/minimize.c`'s `shrink_clause` walks the
// trail backward from the block's highest trail position, resolving
// reasons until exactly one literal of that level remains open. full[0]
// is the outer UIP's negation and is left untouched. Returns the
// collapsed 2-literal clause and true on success, or (full, false) if
// resolution ever reaches a literal of a different nonzero level (the
// same "shrinking failed" exit the original takes).
func (r *Ring) shrink(full []Lit) ([]Lit, bool) {
	block := full[1:]
	level := r.Vars[block[0].Var()].Level

	var touched []Var
	defer func() {
		for _, v := range touched {
			r.Vars[v].Shrinkable = false
		}
	}()

	maxPos := int32(-1)
	open := 0
	for _, lit := range block {
		v := lit.Var()
		if r.Vars[v].Level != level {
			return full, false
		}
		r.Vars[v].Shrinkable = true
		touched = append(touched, v)
		if pos := r.Trail.PositionOf(v); pos > maxPos {
			maxPos = pos
		}
		open++
	}

	idx := int(maxPos)
	uipTrue := InvalidLit
	for open > 0 {
		if idx < 0 {
			return full, false
		}
		cand := r.Trail.At(idx)
		idx--
		v := cand.Var()
		if r.Vars[v].Level != level || !r.Vars[v].Shrinkable {
			continue
		}
		ok := true
		for _, rl := range r.reasonLiterals(r.Vars[v].Reason, cand) {
			rv := rl.Var()
			lvl := r.Vars[rv].Level
			if lvl == 0 {
				continue
			}
			if lvl != level {
				ok = false
				break
			}
			if r.Vars[rv].Shrinkable {
				continue
			}
			r.Vars[rv].Shrinkable = true
			touched = append(touched, rv)
			open++
		}
		if !ok {
			return full, false
		}
		open--
		uipTrue = cand
	}
	if !uipTrue.IsValid() {
		return full, false
	}
	return []Lit{full[0], uipTrue.Not()}, true
}

// minimize removes a literal whose reason's literals are all redundant —
// seen, root-fixed, or recursively minimizable — within a depth budget of
// 1000 (§4.5 "Minimize"). This is Shrink's alternative: analyze() only
// calls minimize when shrink either didn't apply (glue != 1) or declined
// (crossed into a second level).
func (r *Ring) minimize(lits []Lit, levelsSeen map[int32]bool) []Lit {
	out := lits[:1] // UIP negation always survives
	for _, lit := range lits[1:] {
		if r.isRedundant(lit, 0, 1000) {
			continue
		}
		out = append(out, lit)
	}
	return out
}

func (r *Ring) isRedundant(lit Lit, depth, maxDepth int) bool {
	v := lit.Var()
	if r.Vars[v].Level == 0 {
		return true
	}
	if depth >= maxDepth {
		return false
	}
	reason := r.Vars[v].Reason
	if reason.Kind == reasonDecision {
		return false
	}
	for _, rl := range r.reasonLiterals(reason, lit.Not()) {
		rv := rl.Var()
		if r.seen[rv] {
			continue
		}
		if r.Vars[rv].Level == 0 {
			continue
		}
		if !r.isRedundant(rl, depth+1, maxDepth) {
			return false
		}
	}
	return true
}

// secondHighestLevel finds the highest level among lits[1:], which is
// where the clause backjumps to so the non-UIP watch sits at the
// second-highest level (§4.5 "Backjump").
func (r *Ring) secondHighestLevel(lits []Lit, currentLevel int32) int {
	best := int32(0)
	bestIdx := -1
	for i := 1; i < len(lits); i++ {
		lvl := r.Vars[lits[i].Var()].Level
		if lvl > best {
			best = lvl
			bestIdx = i
		}
	}
	if bestIdx > 1 {
		lits[1], lits[bestIdx] = lits[bestIdx], lits[1]
	}
	return int(best)
}
