package solver

import (
	"math/rand"
	"sync/atomic"
)

// Fabric is the clause-sharing layer (C11): for every ordered pair of
// rings (producer, consumer) it holds one mailbox per large-clause tier,
// each a small ring of fixed-size buckets, plus a separate binary mailbox.
// Export publishes into every consumer's mailbox; Import drains one random
// producer's mailbox (§4.10). Binaries get their own value-typed mailbox
// (binBoxes) instead of going through the *Clause boxes below: §4.10's
// "Export (binary)" is explicit that binaries carry no refcount, so a
// binary slot is just two packed literals in an atomic word, never a
// pointer and never dereferenced.
type Fabric struct {
	threads        int
	bucketsPerTier int
	// boxes[producer][consumer][tier] is a slice of atomic clause slots,
	// tier indexed by the large-clause tiers only (tierGlue1..tierTier3).
	boxes [][][numLargeTiers][]atomic.Pointer[Clause]
	// cursor[producer][consumer][tier] is the producer's next bucket to
	// overwrite, advanced round-robin so every bucket gets reused evenly.
	cursor [][][numLargeTiers]atomic.Int32

	// binBoxes[producer][consumer] packs (a+1)<<32|(b+1) per slot; zero
	// means empty, so InvalidLit-biased literals never collide with it.
	binBoxes  [][][]atomic.Uint64
	binCursor [][]atomic.Int32
}

const numTiers = int(tierTier3) + 1
const numLargeTiers = numTiers - 1 // excludes tierBinary, handled by binBoxes

// largeTierOrder lists the large-clause tiers from most to least valuable,
// so Import prefers a glue-1 clause over a bulkier tier-2/3 one when both
// are available (§4.10 "Import").
var largeTierOrder = [numLargeTiers]tier{tierGlue1, tierTier1, tierTier2, tierTier3}

// NewFabric allocates a fabric for the given worker count and buckets per
// tier (§4.10's SIZE_SHARED).
func NewFabric(threads, bucketsPerTier int) *Fabric {
	f := &Fabric{threads: threads, bucketsPerTier: bucketsPerTier}
	f.boxes = make([][][numLargeTiers][]atomic.Pointer[Clause], threads)
	f.cursor = make([][][numLargeTiers]atomic.Int32, threads)
	f.binBoxes = make([][][]atomic.Uint64, threads)
	f.binCursor = make([][]atomic.Int32, threads)
	for p := 0; p < threads; p++ {
		f.boxes[p] = make([][numLargeTiers][]atomic.Pointer[Clause], threads)
		f.cursor[p] = make([][numLargeTiers]atomic.Int32, threads)
		f.binBoxes[p] = make([][]atomic.Uint64, threads)
		f.binCursor[p] = make([]atomic.Int32, threads)
		for c := 0; c < threads; c++ {
			for t := 0; t < numLargeTiers; t++ {
				f.boxes[p][c][t] = make([]atomic.Pointer[Clause], bucketsPerTier)
			}
			f.binBoxes[p][c] = make([]atomic.Uint64, bucketsPerTier)
		}
	}
	return f
}

// Export publishes a newly learnt large clause (len(c.Lits) >= 3, per
// Clause's own invariant) into every other ring's mailbox for this
// clause's tier, replacing (and dereferencing) whatever the round-robin
// cursor currently points at (§4.10 "Export (large)").
func (f *Fabric) Export(producer int, c *Clause) {
	t := int(tierOf(false, c.Glue)) - 1 // large tiers start at tierGlue1
	c.Reference(int32(f.threads - 1))
	for consumer := 0; consumer < f.threads; consumer++ {
		if consumer == producer {
			continue
		}
		slots := f.boxes[producer][consumer][t]
		idx := f.cursor[producer][consumer][t].Add(1) % int32(len(slots))
		old := slots[idx].Swap(c)
		if old != nil {
			old.Dereference()
		}
	}
}

// packBinary encodes two literals into a single nonzero atomic word
// (biased by +1 so the zero value unambiguously means "empty slot").
func packBinary(a, b Lit) uint64 {
	return uint64(uint32(a+1))<<32 | uint64(uint32(b+1))
}

func unpackBinary(packed uint64) (Lit, Lit) {
	a := Lit(int32(packed>>32)) - 1
	b := Lit(int32(uint32(packed))) - 1
	return a, b
}

// ExportBinary publishes a learnt binary clause {a, b} into every other
// ring's binary mailbox. No *Clause is allocated and no refcount is
// touched — binaries are value-typed end to end (§4.10 "Export (binary)").
func (f *Fabric) ExportBinary(producer int, a, b Lit) {
	packed := packBinary(a, b)
	for consumer := 0; consumer < f.threads; consumer++ {
		if consumer == producer {
			continue
		}
		slots := f.binBoxes[producer][consumer]
		idx := f.binCursor[producer][consumer].Add(1) % int32(len(slots))
		slots[idx].Store(packed)
	}
}

// ImportBinary drains one bucket from a random other ring's binary
// mailbox, reporting the pair and whether anything was found.
func (f *Fabric) ImportBinary(consumer int, rng *rand.Rand) (Lit, Lit, bool) {
	if f.threads < 2 {
		return InvalidLit, InvalidLit, false
	}
	producer := consumer
	for producer == consumer {
		producer = rng.Intn(f.threads)
	}
	slots := f.binBoxes[producer][consumer]
	start := rng.Intn(len(slots))
	for i := 0; i < len(slots); i++ {
		idx := (start + i) % len(slots)
		if packed := slots[idx].Swap(0); packed != 0 {
			a, b := unpackBinary(packed)
			return a, b, true
		}
	}
	return InvalidLit, InvalidLit, false
}

// Import drains one bucket from a random other ring's large-clause
// mailbox, preferring the best available tier, and reports whether
// anything was found (§4.10 "Import").
func (f *Fabric) Import(consumer int, rng *rand.Rand) (*Clause, bool) {
	if f.threads < 2 {
		return nil, false
	}
	producer := consumer
	for producer == consumer {
		producer = rng.Intn(f.threads)
	}
	for _, t := range largeTierOrder {
		slots := f.boxes[producer][consumer][int(t)-1]
		start := rng.Intn(len(slots))
		for i := 0; i < len(slots); i++ {
			idx := (start + i) % len(slots)
			c := slots[idx].Swap(nil)
			if c != nil {
				return c, true
			}
		}
	}
	return nil, false
}

// Flush drops every clause still queued for consumer, dereferencing each
// large one (binaries need no dereference); used when a ring exits the
// portfolio early (§4.10 "Flush").
func (f *Fabric) Flush(consumer int) {
	for p := 0; p < f.threads; p++ {
		if p == consumer {
			continue
		}
		for t := 0; t < numLargeTiers; t++ {
			slots := f.boxes[p][consumer][t]
			for i := range slots {
				if c := slots[i].Swap(nil); c != nil {
					c.Dereference()
				}
			}
		}
		for i := range f.binBoxes[p][consumer] {
			f.binBoxes[p][consumer][i].Store(0)
		}
	}
}
