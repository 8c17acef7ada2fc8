package solver

import "testing"

func TestStampQueueNextSkipsAssigned(t *testing.T) {
	q := NewStampQueue(3)
	q.PushBack(0)
	q.PushBack(1)
	q.PushBack(2)
	q.ResetSearch()

	assigned := map[Var]bool{2: true}
	pred := func(v Var) bool { return assigned[v] }

	got := q.Next(pred)
	if got != 1 {
		t.Fatalf("Next() = %d, want 1 (2 is assigned and skipped)", got)
	}
}

func TestStampQueueRestampMovesToBack(t *testing.T) {
	q := NewStampQueue(3)
	q.PushBack(0)
	q.PushBack(1)
	q.PushBack(2)
	q.Restamp(0)
	q.ResetSearch()

	pred := func(Var) bool { return false }
	if got := q.Next(pred); got != 0 {
		t.Fatalf("Next() = %d, want 0: Restamp should move it to the most-recent end", got)
	}
}

func TestStampQueueAllAssignedReturnsInvalid(t *testing.T) {
	q := NewStampQueue(2)
	q.PushBack(0)
	q.PushBack(1)
	q.ResetSearch()
	pred := func(Var) bool { return true }
	if got := q.Next(pred); got != InvalidVar {
		t.Fatalf("Next() = %d, want InvalidVar when every variable is assigned", got)
	}
}
