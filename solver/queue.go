package solver

// StampQueue is the doubly-linked timestamp queue backing focused-mode
// (VMTF) decisions (§3 "Heap & queue", §4.4). Each variable carries a
// rising "stamp" recording recency; the search cursor walks backward
// through unassigned links.
type StampQueue struct {
	next, prev []Var // per-variable links; InvalidVar terminates
	first, last Var
	search      Var
	stamp       []int64
	nextStamp   int64
}

func NewStampQueue(n int) *StampQueue {
	q := &StampQueue{
		next:  make([]Var, n),
		prev:  make([]Var, n),
		stamp: make([]int64, n),
		first: InvalidVar,
		last:  InvalidVar,
		search: InvalidVar,
	}
	for v := Var(0); int(v) < n; v++ {
		q.next[v] = InvalidVar
		q.prev[v] = InvalidVar
	}
	return q
}

func (q *StampQueue) Grow(n int) {
	for len(q.next) < n {
		q.next = append(q.next, InvalidVar)
		q.prev = append(q.prev, InvalidVar)
		q.stamp = append(q.stamp, 0)
	}
}

// PushBack appends v to the back of the queue (most recently introduced),
// giving it a fresh stamp.
func (q *StampQueue) PushBack(v Var) {
	q.prev[v] = q.last
	q.next[v] = InvalidVar
	if q.last.IsValidVar() {
		q.next[q.last] = v
	} else {
		q.first = v
	}
	q.last = v
	q.nextStamp++
	q.stamp[v] = q.nextStamp
	if !q.search.IsValidVar() {
		q.search = v
	}
}

// IsValidVar mirrors Lit.IsValid for the Var type used by queue links.
func (v Var) IsValidVar() bool { return v >= 0 }

// Unlink removes v from the list (used only internally; variables are
// normally kept in the list and skipped by search rather than removed).
func (q *StampQueue) unlink(v Var) {
	if q.prev[v].IsValidVar() {
		q.next[q.prev[v]] = q.next[v]
	} else {
		q.first = q.next[v]
	}
	if q.next[v].IsValidVar() {
		q.prev[q.next[v]] = q.prev[v]
	} else {
		q.last = q.prev[v]
	}
}

// Restamp moves v to the back with a new, higher stamp (VMTF bump on
// conflict, §4.5 "focused mode ... sort analyzed by trail order and
// bump").
func (q *StampQueue) Restamp(v Var) {
	q.unlink(v)
	q.PushBack(v)
}

// ResetSearch advances the search cursor to the link with the maximum
// stamp (used when a ring is built or rebuilt and when it switches into
// focused mode).
func (q *StampQueue) ResetSearch() {
	q.search = q.last
}

// Next walks the search cursor backward to the next unassigned variable,
// given a predicate reporting assignment state; returns InvalidVar if the
// whole queue is assigned.
func (q *StampQueue) Next(assigned func(Var) bool) Var {
	v := q.search
	for v.IsValidVar() && assigned(v) {
		v = q.prev[v]
	}
	q.search = v
	return v
}

// BumpIfUnassigned moves the search cursor to v when v is unassigned and
// its stamp is above the cursor's (or the cursor is invalid); v's own stamp
// is left unchanged. Used after v becomes unassigned again.
func (q *StampQueue) BumpIfUnassigned(v Var, assigned func(Var) bool) {
	if !assigned(v) {
		if !q.search.IsValidVar() || q.stamp[v] > q.stamp[q.search] {
			q.search = v
		}
	}
}
