package solver

import "testing"

func TestNewClauseCopiesLiterals(t *testing.T) {
	lits := []Lit{MkLit(0, false), MkLit(1, true), MkLit(2, false)}
	c := NewClause(lits, true, 2, 0)
	lits[0] = MkLit(9, false)
	if c.Lits[0] == lits[0] {
		t.Fatal("NewClause must copy the literal slice, not alias the caller's backing array")
	}
	if !c.Redundant() {
		t.Fatal("redundant=true must set FlagRedundant")
	}
	if c.Glue != 2 {
		t.Errorf("Glue = %d, want 2", c.Glue)
	}
}

func TestSaturateGlueNeverZero(t *testing.T) {
	c := NewClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, true, 0, 0)
	if c.Glue == 0 {
		t.Fatal("glue must saturate to at least 1, never 0")
	}
}

func TestPromoteGlueOnlyLowers(t *testing.T) {
	c := NewClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, true, 5, 0)
	c.PromoteGlue(8)
	if c.Glue != 5 {
		t.Errorf("PromoteGlue must never raise glue, got %d", c.Glue)
	}
	c.PromoteGlue(2)
	if c.Glue != 2 {
		t.Errorf("PromoteGlue(2) should lower glue to 2, got %d", c.Glue)
	}
}

func TestClauseRefcounting(t *testing.T) {
	c := NewClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, true, 1, 0)
	c.Reference(3)
	if c.Shared() != 3 {
		t.Fatalf("Shared() = %d, want 3", c.Shared())
	}
	if c.Dereference() {
		t.Fatal("Dereference should not report zero after only one of three references dropped")
	}
	c.Dereference()
	if !c.Dereference() {
		t.Fatal("Dereference should report zero once the refcount is fully drained")
	}
}

func TestMarkGarbageAndVivified(t *testing.T) {
	c := NewClause([]Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, true, 1, 0)
	if c.Garbage() || c.Vivified() {
		t.Fatal("a fresh clause must start neither garbage nor vivified")
	}
	c.MarkGarbage()
	c.MarkVivified()
	if !c.Garbage() || !c.Vivified() {
		t.Fatal("MarkGarbage/MarkVivified must set their respective bits")
	}
}

func TestTierOf(t *testing.T) {
	cases := []struct {
		binary bool
		glue   uint8
		want   tier
	}{
		{true, 0, tierBinary},
		{false, 1, tierGlue1},
		{false, 2, tierTier1},
		{false, 6, tierTier2},
		{false, 7, tierTier3},
	}
	for _, c := range cases {
		if got := tierOf(c.binary, c.glue); got != c.want {
			t.Errorf("tierOf(%v,%d) = %v, want %v", c.binary, c.glue, got, c.want)
		}
	}
}
