package solver

import "testing"

func TestMkLitRoundTrip(t *testing.T) {
	cases := []struct {
		v   Var
		neg bool
	}{
		{0, false}, {0, true}, {41, false}, {41, true},
	}
	for _, c := range cases {
		l := MkLit(c.v, c.neg)
		if l.Var() != c.v {
			t.Errorf("MkLit(%d,%v).Var() = %d, want %d", c.v, c.neg, l.Var(), c.v)
		}
		if l.Sign() != c.neg {
			t.Errorf("MkLit(%d,%v).Sign() = %v, want %v", c.v, c.neg, l.Sign(), c.neg)
		}
	}
}

func TestLitNot(t *testing.T) {
	l := MkLit(3, false)
	if !l.Not().Sign() {
		t.Fatal("Not() of a positive literal should be negative")
	}
	if l.Not().Not() != l {
		t.Fatal("double negation should return the original literal")
	}
}

func TestInvalidLit(t *testing.T) {
	if InvalidLit.IsValid() {
		t.Fatal("InvalidLit must report itself invalid")
	}
	if MkLit(0, false).IsValid() == false {
		t.Fatal("a freshly packed literal must be valid")
	}
}

func TestDimacsRoundTrip(t *testing.T) {
	for _, x := range []int32{1, -1, 17, -17, 200} {
		l := DimacsToLit(x)
		if got := l.ToDimacs(); got != x {
			t.Errorf("DimacsToLit(%d).ToDimacs() = %d, want %d", x, got, x)
		}
	}
}

func TestLitIndexIsDense(t *testing.T) {
	pos := MkLit(5, false)
	neg := MkLit(5, true)
	if pos.Index() == neg.Index() {
		t.Fatal("positive and negative occurrences must have distinct indices")
	}
	if pos.Index() < 0 || neg.Index() < 0 {
		t.Fatal("literal indices must be non-negative for array indexing")
	}
}
