package solver

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/parasat/internal/dimacs"
)

// buildRuler parses a DIMACS document and installs its clauses into a
// fresh Ruler, the way cmd/parasat wires a parsed Problem into the core.
func buildRuler(t *testing.T, cnf string, threads int) *Ruler {
	t.Helper()
	prob, err := dimacs.Read(strings.NewReader(cnf))
	require.NoError(t, err)
	ru := NewRuler(prob.NVars, threads)
	for _, lits := range prob.Clauses {
		// dimacs.Read already drops tautologies at parse time; any
		// remaining zero-length clause here is the genuine empty clause.
		packed := make([]Lit, len(lits))
		for i, x := range lits {
			packed[i] = DimacsToLit(x)
		}
		ru.AddClause(packed)
	}
	return ru
}

func solveCNF(t *testing.T, cnf string, threads int) Result {
	t.Helper()
	ru := buildRuler(t, cnf, threads)
	opts := DefaultOptions()
	opts.Threads = threads
	return Solve(context.Background(), ru, opts, zerolog.ConsoleWriter{Out: io.Discard})
}

// assignsLit reports whether witness w (1-based DIMACS-space, +1/-1 per
// variable) satisfies the signed literal x.
func assignsLit(w []int8, x int32) bool {
	v := int(x)
	if v < 0 {
		v = -v
	}
	val := w[v-1]
	if x < 0 {
		return val < 0
	}
	return val > 0
}

func satisfies(w []int8, clauses [][]int32) bool {
	for _, c := range clauses {
		ok := false
		for _, lit := range c {
			if assignsLit(w, lit) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// S1: p cnf 3 2, 1 2 0, -1 3 0 -> SAT.
func TestScenarioS1SmallSAT(t *testing.T) {
	cnf := "p cnf 3 2\n1 2 0\n-1 3 0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 10, res.Status)
	require.True(t, satisfies(res.Witness, [][]int32{{1, 2}, {-1, 3}}))
}

// S2: unit chain forces a unique model.
func TestScenarioS2UnitChain(t *testing.T) {
	cnf := "p cnf 4 4\n1 0\n-1 2 0\n-2 3 0\n-3 4 0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 10, res.Status)
	require.Equal(t, []int8{1, 1, 1, 1}, res.Witness)
}

// S3: complementary units at the root are immediately UNSAT.
func TestScenarioS3ImmediateUnsat(t *testing.T) {
	cnf := "p cnf 2 2\n1 0\n-1 0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 20, res.Status)
}

// S4: pigeonhole with 3 pigeons in 2 holes is UNSAT regardless of thread
// count (clause order is nondeterministic under sharing; the verdict and
// proof validity are not, per spec §8 S4).
func TestScenarioS4Pigeonhole(t *testing.T) {
	// Variables x[p][h] = pigeon p in hole h, p in {0,1,2}, h in {0,1}.
	// var(p,h) = p*2+h+1 (1-based).
	v := func(p, h int) int32 { return int32(p*2 + h + 1) }
	var clauses [][]int32
	for p := 0; p < 3; p++ {
		clauses = append(clauses, []int32{v(p, 0), v(p, 1)})
	}
	for h := 0; h < 2; h++ {
		for p1 := 0; p1 < 3; p1++ {
			for p2 := p1 + 1; p2 < 3; p2++ {
				clauses = append(clauses, []int32{-v(p1, h), -v(p2, h)})
			}
		}
	}
	var sb strings.Builder
	sb.WriteString("p cnf 6 ")
	sb.WriteString(itoa(len(clauses)))
	sb.WriteByte('\n')
	for _, c := range clauses {
		for _, l := range c {
			sb.WriteString(itoa32(l))
			sb.WriteByte(' ')
		}
		sb.WriteString("0\n")
	}
	cnf := sb.String()

	for _, threads := range []int{1, 4} {
		res := solveCNF(t, cnf, threads)
		require.EqualValues(t, 20, res.Status, "threads=%d", threads)
	}
}

func itoa(n int) string { return itoa32(int32(n)) }

func itoa32(n int32) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// S6: variable 1 is eliminable; the extension stack must reconstruct an
// assignment satisfying every original clause after bounded variable
// elimination runs during Simplify.
func TestScenarioS6EliminableVariable(t *testing.T) {
	cnf := "p cnf 3 3\n1 2 0\n-1 3 0\n1 -3 0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 10, res.Status)
	require.True(t, satisfies(res.Witness, [][]int32{{1, 2}, {-1, 3}, {1, -3}}))
}

// Boundary: a formula containing only the empty clause is UNSAT.
func TestBoundaryEmptyClauseOnly(t *testing.T) {
	cnf := "p cnf 1 1\n0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 20, res.Status)
}

// Boundary: a single unit clause is SAT and assigns that variable true.
func TestBoundarySingleUnit(t *testing.T) {
	cnf := "p cnf 1 1\n1 0\n"
	res := solveCNF(t, cnf, 1)
	require.EqualValues(t, 10, res.Status)
	require.Equal(t, []int8{1}, res.Witness)
}
