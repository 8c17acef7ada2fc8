package solver

// Options collects the tunables the core reads; CLI/env parsing that
// produces an Options value is out of scope (spec §6) but the struct
// itself, and its defaults, are part of the core's contract. Mirrors the
// teacher's CDCLConfig/InprocessConfig: one struct of knobs plus a
// Default...Config constructor (sat/types.go, sat/cdcl.go).
type Options struct {
	Threads int // 1..MaxThreads

	ConflictLimit int64 // 0 = unlimited
	TickLimit     int64 // 0 = unlimited

	NoWalk       bool
	WalkInitially bool
	NoSimplify   bool

	// Restart controller (§4.6)
	FocusedRestartInterval int64
	StableRestartInterval  int64

	// Reduce controller (§4.6)
	ReduceBase     int64
	ReduceFraction float64

	// Rephase controller (§4.6)
	RephaseBase int64

	// Mode switch controller (§4.6)
	ModeSwitchBase int64

	// Probing & vivification (§4.7)
	EnableProbing      bool
	EnableVivification bool

	// Bounded variable elimination (§4.11 step 6)
	EnableVariableElimination bool
	BVEOccurrenceCap          int
	BVEMarginLDMax            int

	// Clause sharing fabric (§4.10)
	SharedBucketsPerTier int

	RandomSeed int64
}

// MaxThreads bounds the worker-ring portfolio size.
const MaxThreads = 64

// DefaultOptions returns the defaults a standalone run would use.
func DefaultOptions() Options {
	return Options{
		Threads:                   1,
		FocusedRestartInterval:    50,
		StableRestartInterval:     500,
		ReduceBase:                300,
		ReduceFraction:            0.75,
		RephaseBase:               1000,
		ModeSwitchBase:            1000,
		EnableProbing:             true,
		EnableVivification:        true,
		EnableVariableElimination: true,
		BVEOccurrenceCap:          16,
		BVEMarginLDMax:            8,
		SharedBucketsPerTier:      4,
		RandomSeed:                1,
	}
}

func (o Options) clamp() Options {
	if o.Threads < 1 {
		o.Threads = 1
	}
	if o.Threads > MaxThreads {
		o.Threads = MaxThreads
	}
	if o.SharedBucketsPerTier < 1 {
		o.SharedBucketsPerTier = 1
	}
	return o
}
