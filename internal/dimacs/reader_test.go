package dimacs

import (
	"strings"
	"testing"
)

func TestReadBasicClauses(t *testing.T) {
	p, err := Read(strings.NewReader("c a comment\np cnf 3 2\n1 2 0\n-1 3 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p.NVars != 3 || p.NClauses != 2 {
		t.Fatalf("header = %d/%d, want 3/2", p.NVars, p.NClauses)
	}
	want := [][]int32{{1, 2}, {-1, 3}}
	if len(p.Clauses) != len(want) {
		t.Fatalf("got %d clauses, want %d", len(p.Clauses), len(want))
	}
	for i, c := range p.Clauses {
		if len(c) != len(want[i]) {
			t.Fatalf("clause %d = %v, want %v", i, c, want[i])
		}
		for j := range c {
			if c[j] != want[i][j] {
				t.Fatalf("clause %d = %v, want %v", i, c, want[i])
			}
		}
	}
}

// A clause split across multiple physical lines before its terminating 0
// must still parse as one clause.
func TestReadClauseAcrossLines(t *testing.T) {
	p, err := Read(strings.NewReader("p cnf 3 1\n1 2\n3 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Clauses) != 1 || len(p.Clauses[0]) != 3 {
		t.Fatalf("got %v, want one 3-literal clause", p.Clauses)
	}
}

// A tautological clause (x, -x present) is dropped entirely, not kept as
// an empty slot — an empty slot means the genuinely empty, UNSAT-forcing
// clause instead (spec §8 boundary behaviors).
func TestReadTautologyDropped(t *testing.T) {
	p, err := Read(strings.NewReader("p cnf 2 2\n1 -1 2 0\n1 2 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Clauses) != 1 {
		t.Fatalf("got %d clauses, want the tautology dropped leaving 1", len(p.Clauses))
	}
}

// A literal clause of "0" alone is the genuine empty clause and must be
// kept (as a zero-length, non-nil entry) so the consumer treats it as an
// immediate UNSAT forcing clause rather than silently dropping it.
func TestReadGenuineEmptyClauseKept(t *testing.T) {
	p, err := Read(strings.NewReader("p cnf 1 1\n0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Clauses) != 1 {
		t.Fatalf("got %d clauses, want 1 (the empty clause itself)", len(p.Clauses))
	}
	if len(p.Clauses[0]) != 0 {
		t.Fatalf("got %v, want an empty clause", p.Clauses[0])
	}
}

func TestReadDuplicateLiteralsCollapse(t *testing.T) {
	p, err := Read(strings.NewReader("p cnf 2 1\n1 1 2 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Clauses[0]) != 2 {
		t.Fatalf("got %v, want duplicates collapsed to 2 literals", p.Clauses[0])
	}
}

func TestReadEmbeddedOptionComment(t *testing.T) {
	p, err := Read(strings.NewReader("c --threads=4\nc --no-walk\np cnf 1 1\n1 0\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p.Options["threads"] != "4" {
		t.Fatalf("Options[threads] = %q, want 4", p.Options["threads"])
	}
	if p.Options["no-walk"] != "true" {
		t.Fatalf("Options[no-walk] = %q, want true", p.Options["no-walk"])
	}
}

func TestReadRejectsLiteralOutOfRange(t *testing.T) {
	_, err := Read(strings.NewReader("p cnf 2 1\n1 3 0\n"))
	if err == nil {
		t.Fatal("expected an error for a literal exceeding the declared variable count")
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	_, err := Read(strings.NewReader("1 2 0\n"))
	if err == nil {
		t.Fatal("expected an error for a clause line before the header")
	}
}

func TestReadRejectsDuplicateHeader(t *testing.T) {
	_, err := Read(strings.NewReader("p cnf 1 1\np cnf 1 1\n1 0\n"))
	if err == nil {
		t.Fatal("expected an error for a duplicate problem header")
	}
}
