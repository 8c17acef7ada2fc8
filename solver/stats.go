package solver

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Statistics tracks one ring's performance counters, the same shape the
// teacher's SolverStatistics plays in sat/types.go but extended with the
// tick/EMA/sharing counters this spec's controllers need.
type Statistics struct {
	Decisions    int64
	Propagations int64
	Conflicts    int64
	Restarts     int64
	Reductions   int64
	Rephases     int64
	ModeSwitches int64
	Probes       int64
	Vivifications int64
	WalkSteps    int64
	Ticks        int64

	Learned   int64
	Deleted   int64
	Promoted  int64

	Imported int64
	Exported int64

	InprocessRuns       int64
	UnitsPropagated     int64
	VariablesEliminated int64
	Subsumed            int64
	Strengthened        int64
	BinariesDeduped     int64
}

// ema is a reusable exponential moving average, grounded on the teacher's
// preference for a named small type over scattering float64 fields
// (sat/types.go's ClauseDatabase groups related scalars similarly).
// Supplemented from original_source/average.c per SPEC_FULL §5.
type ema struct {
	value float64
	alpha float64
	count int64
}

func newEMA(alpha float64) ema { return ema{alpha: alpha} }

// update folds in a new sample, bias-correcting for the first few updates
// the way average.c does so early samples don't get an outsized initial
// alpha.
func (e *ema) update(sample float64) {
	e.count++
	beta := e.alpha
	if e.count < int64(1/e.alpha) {
		// Use a decaying larger weight until the window fills, avoiding a
		// cold-start bias toward zero.
		beta = 1.0 / float64(e.count+1)
	}
	e.value += beta * (sample - e.value)
}

func (e *ema) get() float64 { return e.value }

// lineCounter backs the thread-local trace log described in spec §9
// ("a thread-local buffer flushed to a file via an atomic line counter").
var lineCounter atomic.Int64

// NewRingLogger builds a per-ring zerolog.Logger tagged with the ring id,
// silent (Disabled level) unless verbose is true so it stays off the hot
// path (§9).
func NewRingLogger(w zerolog.ConsoleWriter, ringID int, verbose bool) zerolog.Logger {
	lvl := zerolog.Disabled
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(lvl).With().Int("ring", ringID).Logger()
}

func (s *Statistics) logLine() int64 {
	return lineCounter.Add(1)
}
