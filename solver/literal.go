package solver

import "fmt"

// Var is a zero-indexed Boolean variable. The solver supports roughly 2^30
// variables, matching the packed literal encoding below.
type Var int32

// Lit is a packed literal: Var<<1 for the positive occurrence, that value
// with the low bit set for the negated occurrence. Negation is a single XOR.
type Lit int32

// InvalidLit marks "no literal" in watch links, reasons, and trail slots.
// The source encodes this as 2^32-1; a signed Go int32 instead reserves -1,
// which keeps arithmetic on Lit branch-free while staying out of the valid
// range (valid literals are always >= 0).
const InvalidLit Lit = -1

// InvalidVar mirrors InvalidLit for variable-indexed tables.
const InvalidVar Var = -1

// MkLit packs a variable and a polarity into a literal. neg=true yields the
// negative occurrence (¬v).
func MkLit(v Var, neg bool) Lit {
	l := Lit(v) << 1
	if neg {
		l |= 1
	}
	return l
}

// Var unpacks the variable this literal refers to.
func (l Lit) Var() Var { return Var(l >> 1) }

// Sign reports whether l is the negative occurrence.
func (l Lit) Sign() bool { return l&1 != 0 }

// Not returns the negation of l; flipping the low bit is sufficient because
// of the idx<<1|sign packing.
func (l Lit) Not() Lit { return l ^ 1 }

// IsValid reports whether l is a real literal rather than the sentinel.
func (l Lit) IsValid() bool { return l >= 0 }

// Index returns a dense 0..2n-1 array index for per-literal tables
// (occurrence lists, binary adjacency, polarity-indexed values).
func (l Lit) Index() int { return int(l) }

func (l Lit) String() string {
	if !l.IsValid() {
		return "<invalid>"
	}
	if l.Sign() {
		return fmt.Sprintf("-%d", l.Var()+1)
	}
	return fmt.Sprintf("%d", l.Var()+1)
}

// DimacsToLit converts a signed, 1-based DIMACS literal to the packed
// encoding. The caller must have already validated |x| is within range.
func DimacsToLit(x int32) Lit {
	if x < 0 {
		return MkLit(Var(-x-1), true)
	}
	return MkLit(Var(x-1), false)
}

// ToDimacs converts a packed literal back to signed, 1-based DIMACS form,
// used by witness printing and DRAT emission.
func (l Lit) ToDimacs() int32 {
	v := int32(l.Var()) + 1
	if l.Sign() {
		return -v
	}
	return v
}
