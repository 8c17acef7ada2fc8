package solver

import "golang.org/x/exp/constraints"

// min is a tiny generic helper shared by the margin/clamping arithmetic
// scattered across the reduce and BVE controllers (§4.6, §4.11), so those
// call sites don't each hand-roll an if/else over a specific numeric type.
func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
