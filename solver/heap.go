package solver

// ScoreHeap is the array-based binary max-heap (not a pairing heap)
// backing stable-mode decisions (§3
// "Heap & queue", §4.4). Nodes are (Var, score) pairs; HeapIndex on the
// VarRecord gives O(1) decrease/increase-key without a secondary map,
// mirroring the teacher's preference for inline indices over maps on hot
// paths once string keys are replaced by packed integers.
type ScoreHeap struct {
	nodes     []heapNode // 1-indexed; nodes[0] is unused
	vars      *[]VarRecord
	increment float64
}

type heapNode struct {
	v     Var
	score float64
}

const rescaleThreshold = 1e150

func NewScoreHeap(vars *[]VarRecord) *ScoreHeap {
	return &ScoreHeap{nodes: make([]heapNode, 1), vars: vars, increment: 1.0}
}

func (h *ScoreHeap) Len() int { return len(h.nodes) - 1 }

func (h *ScoreHeap) Contains(v Var) bool {
	idx := (*h.vars)[v].HeapIndex
	return idx > 0 && int(idx) < len(h.nodes) && h.nodes[idx].v == v
}

// Push inserts v with its current activity score, sifting up.
func (h *ScoreHeap) Push(v Var, score float64) {
	h.nodes = append(h.nodes, heapNode{v: v, score: score})
	i := len(h.nodes) - 1
	(*h.vars)[v].HeapIndex = int32(i)
	h.siftUp(i)
}

// Pop removes and returns the maximum-score variable.
func (h *ScoreHeap) Pop() Var {
	top := h.nodes[1].v
	last := len(h.nodes) - 1
	h.nodes[1] = h.nodes[last]
	h.nodes = h.nodes[:last]
	(*h.vars)[top].HeapIndex = 0
	if len(h.nodes) > 1 {
		(*h.vars)[h.nodes[1].v].HeapIndex = 1
		h.siftDown(1)
	}
	return top
}

// Peek returns the maximum-score variable without removing it.
func (h *ScoreHeap) Peek() Var { return h.nodes[1].v }

// Bump increases v's score by amount, as chosen by the caller (the heap's
// own increment field is not used here), rescaling the whole heap if the score would
// exceed the threshold — a single-pass divide rather than a per-key
// update, per spec §9's design note.
func (h *ScoreHeap) Bump(v Var, amount float64) {
	i := (*h.vars)[v].HeapIndex
	if i <= 0 || int(i) >= len(h.nodes) || h.nodes[i].v != v {
		return // not currently in the heap (already assigned)
	}
	h.nodes[i].score += amount
	if h.nodes[i].score > rescaleThreshold {
		h.rescale()
		i = (*h.vars)[v].HeapIndex
	}
	h.siftUp(int(i))
}

func (h *ScoreHeap) rescale() {
	max := 0.0
	for _, n := range h.nodes[1:] {
		if n.score > max {
			max = n.score
		}
	}
	if max == 0 {
		return
	}
	for i := range h.nodes[1:] {
		h.nodes[i+1].score /= max
	}
	h.increment /= max
}

func (h *ScoreHeap) siftUp(i int) {
	for i > 1 {
		parent := i / 2
		if h.nodes[parent].score >= h.nodes[i].score {
			break
		}
		h.swap(parent, i)
		i = parent
	}
}

func (h *ScoreHeap) siftDown(i int) {
	n := len(h.nodes) - 1
	for {
		left, right := 2*i, 2*i+1
		largest := i
		if left <= n && h.nodes[left].score > h.nodes[largest].score {
			largest = left
		}
		if right <= n && h.nodes[right].score > h.nodes[largest].score {
			largest = right
		}
		if largest == i {
			return
		}
		h.swap(i, largest)
		i = largest
	}
}

func (h *ScoreHeap) swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	(*h.vars)[h.nodes[i].v].HeapIndex = int32(i)
	(*h.vars)[h.nodes[j].v].HeapIndex = int32(j)
}

// RebuildFrom repopulates the heap from a fresh activity table, used when
// switching focused -> stable (§4.6 "Mode switch").
func (h *ScoreHeap) RebuildFrom(activity []float64, unassigned func(Var) bool, n int) {
	h.nodes = h.nodes[:1]
	for v := Var(0); int(v) < n; v++ {
		if unassigned(v) {
			h.Push(v, activity[v])
		} else {
			(*h.vars)[v].HeapIndex = 0
		}
	}
}
