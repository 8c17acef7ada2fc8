package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Binaries shared through the fabric must round-trip without ever
// allocating or refcounting a *Clause (§4.10 "Export (binary)").
func TestFabricBinaryRoundTrip(t *testing.T) {
	f := NewFabric(2, 4)
	a, b := MkLit(0, false), MkLit(1, true)
	f.ExportBinary(0, a, b)

	rng := rand.New(rand.NewSource(1))
	gotA, gotB, ok := f.ImportBinary(1, rng)
	require.True(t, ok)
	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)

	_, _, ok = f.ImportBinary(1, rng)
	require.False(t, ok, "a consumed binary slot must not be importable twice")
}

// A binary export must never land in a large-clause mailbox, and vice
// versa: the two sharing paths are fully separate.
func TestFabricBinaryAndLargeAreIsolated(t *testing.T) {
	f := NewFabric(2, 4)
	rng := rand.New(rand.NewSource(2))

	large := NewClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, true, 3, 0)
	f.Export(0, large)

	_, _, ok := f.ImportBinary(1, rng)
	require.False(t, ok, "large export must not surface through the binary mailbox")

	c, ok := f.Import(1, rng)
	require.True(t, ok)
	require.Same(t, large, c)
}
