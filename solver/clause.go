package solver

import "sync/atomic"

// ClauseFlag is a bit in Clause.Flags. Flags other than Vivified are only
// ever touched while the owning ring holds exclusive access to the clause
// (private redundant clauses) or while all rings are paused at a simplify
// barrier (shared irredundant clauses) — see DESIGN.md's note on Open
// Question 1 for why these are not merged with watcher-level flags.
type ClauseFlag uint8

const (
	FlagCleaned ClauseFlag = 1 << iota
	FlagDirty
	FlagGarbage
	FlagMapped
	FlagRedundant
	FlagSubsume
)

// Clause is an immutable large-clause payload: once constructed its literal
// array never changes shape (only glue, flags, and the vivified bit may
// move, and only monotonically). Binary clauses never use this type — they
// are carried as a Watch value, see watch.go — so every *Clause here has at
// least three literals.
type Clause struct {
	ID     int64
	Origin int32
	Glue   uint8
	Flags  ClauseFlag
	Lits   []Lit

	// Vivified races across rings sharing this clause by refcount (§4.7);
	// the source tolerates the race because all writers store true. Go's
	// memory model does not let a plain bool survive that under the race
	// detector, so this is kept atomic instead (Open Question 3).
	vivified atomic.Bool

	// shared implements the refcount invariant: shared == (#watchers) +
	// (#mailbox buckets) currently referencing this clause.
	shared atomic.Int32
}

// NewClause allocates a large clause, initializing shared=0 and copying the
// literal slice so the caller's backing array can be reused.
func NewClause(lits []Lit, redundant bool, glue uint8, origin int32) *Clause {
	c := &Clause{
		Origin: origin,
		Glue:   saturateGlue(glue),
		Lits:   append([]Lit(nil), lits...),
	}
	if redundant {
		c.Flags |= FlagRedundant
	}
	return c
}

func saturateGlue(g uint8) uint8 {
	if g == 0 {
		return 1
	}
	return g
}

// PromoteGlue lowers the clause's glue, monotone non-increasing per §4.1.
func (c *Clause) PromoteGlue(g uint8) {
	if g < c.Glue {
		c.Glue = g
	}
}

// Size returns the literal count.
func (c *Clause) Size() int { return len(c.Lits) }

// Redundant reports the clause's redundant flag.
func (c *Clause) Redundant() bool { return c.Flags&FlagRedundant != 0 }

// Garbage reports whether the clause has been marked for collection.
func (c *Clause) Garbage() bool { return c.Flags&FlagGarbage != 0 }

// MarkGarbage sets the garbage flag; the caller must already hold whatever
// exclusivity the clause's ownership rules require (see DESIGN.md).
func (c *Clause) MarkGarbage() { c.Flags |= FlagGarbage }

// Vivified reports the atomic vivified bit (Open Question 3).
func (c *Clause) Vivified() bool { return c.vivified.Load() }

// MarkVivified sets the vivified bit; concurrent writers racing here all
// store true, so no synchronization beyond the atomic store is needed.
func (c *Clause) MarkVivified() { c.vivified.Store(true) }

// Shared returns the current refcount.
func (c *Clause) Shared() int32 { return c.shared.Load() }

// Reference increments the refcount by inc, e.g. by 1 per new watcher or by
// (threads-1) when an exporter reserves one slot per peer (§4.10).
func (c *Clause) Reference(inc int32) {
	c.shared.Add(inc)
}

// Dereference decrements the refcount and reports whether it reached zero,
// in which case the caller must stop using the clause; it is immediately
// eligible for collection. Every publish through a mailbox bucket must be
// matched by exactly one Dereference (consumer take or exporter drop) or
// the clause leaks; decrementing twice for the same share is undefined
// behavior by contract (§9).
func (c *Clause) Dereference() bool {
	return c.shared.Add(-1) == 0
}

// tier classifies a clause (or a would-be learnt clause of the given glue)
// into the sharing fabric's tier scheme (§4.5, §4.10, GLOSSARY).
type tier int

const (
	tierBinary tier = iota
	tierGlue1
	tierTier1
	tierTier2
	tierTier3
)

const (
	glueTier1Max = 2
	glueTier2Max = 6
)

func tierOf(binary bool, glue uint8) tier {
	switch {
	case binary:
		return tierBinary
	case glue == 1:
		return tierGlue1
	case glue <= glueTier1Max:
		return tierTier1
	case glue <= glueTier2Max:
		return tierTier2
	default:
		return tierTier3
	}
}
