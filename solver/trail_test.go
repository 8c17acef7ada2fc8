package solver

import "testing"

func TestTrailPushAndPosition(t *testing.T) {
	tr := NewTrail(4)
	l0 := MkLit(0, false)
	l1 := MkLit(1, true)
	tr.Push(l0)
	tr.Push(l1)
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if tr.At(0) != l0 || tr.At(1) != l1 {
		t.Fatal("At(i) must return literals in push order")
	}
	if tr.PositionOf(0) != 0 || tr.PositionOf(1) != 1 {
		t.Fatal("PositionOf must report the trail index a variable was assigned at")
	}
}

func TestTrailCursorsStartDry(t *testing.T) {
	tr := NewTrail(4)
	if !tr.Propagated() {
		t.Fatal("an empty trail must already be fully propagated")
	}
	tr.Push(MkLit(0, false))
	if tr.Propagated() {
		t.Fatal("pushing a literal must make it pending propagation")
	}
	if tr.NextToPropagate() != MkLit(0, false) {
		t.Fatal("NextToPropagate must return the pushed literal")
	}
	if !tr.Propagated() {
		t.Fatal("after consuming the only pending literal, Propagated must be true")
	}
}

func TestShrinkToClampsCursors(t *testing.T) {
	tr := NewTrail(4)
	for v := Var(0); v < 4; v++ {
		tr.Push(MkLit(v, false))
	}
	for tr.Propagated() == false {
		tr.NextToPropagate()
	}
	for tr.PendingIterate() {
		tr.NextIterate()
	}
	for tr.PendingExport() {
		tr.NextExport()
	}

	tr.ShrinkTo(1)
	if tr.Len() != 1 {
		t.Fatalf("Len() after ShrinkTo(1) = %d, want 1", tr.Len())
	}
	if !tr.Propagated() {
		t.Fatal("propagate cursor must be clamped to the new trail length")
	}
	if tr.PendingIterate() || tr.PendingExport() {
		t.Fatal("iterate/export cursors must never exceed the clamped propagate cursor (Open Question 2)")
	}
}
