package solver

import "sync"

// Barrier is a reusable N-way rendezvous supporting disable-and-abort
// (§4.12). Workers block on mu/cond until `waiting` reaches `size`, at
// which point everyone is released and the barrier recycles for its next
// round.
type Barrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	size     int
	waiting  int
	round    int64
	disabled bool
}

// NewBarrier builds a barrier for `size` participants.
func NewBarrier(size int) *Barrier {
	b := &Barrier{size: size}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Rendezvous blocks until every participant has arrived, returning true if
// the barrier passed normally or false if it was disabled mid-wait
// (§4.12).
func (b *Barrier) Rendezvous() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disabled {
		return false
	}
	myRound := b.round
	b.waiting++
	if b.waiting == b.size {
		b.round++
		b.waiting = 0
		b.cond.Broadcast()
		return true
	}
	for b.round == myRound && !b.disabled {
		b.cond.Wait()
	}
	return !b.disabled
}

// DisableAndAbort sets disabled and wakes every pending waiter, which then
// observe false from Rendezvous (§4.12, used when a winner is declared
// mid-round).
func (b *Barrier) DisableAndAbort() {
	b.mu.Lock()
	b.disabled = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Reenable clears the disabled flag so the barrier can be reused for a
// fresh run (tests only; production solves run once per process).
func (b *Barrier) Reenable() {
	b.mu.Lock()
	b.disabled = false
	b.waiting = 0
	b.mu.Unlock()
}

// BarrierSet names the five rendezvous points in the simplify sequence
// (§4.11's "Simplify rendezvous sequence"): start, unclone, run, copy, end.
type BarrierSet struct {
	Start   *Barrier
	Unclone *Barrier
	Run     *Barrier
	Copy    *Barrier
	End     *Barrier
}

func NewBarrierSet(size int) *BarrierSet {
	return &BarrierSet{
		Start:   NewBarrier(size),
		Unclone: NewBarrier(size),
		Run:     NewBarrier(size),
		Copy:    NewBarrier(size),
		End:     NewBarrier(size),
	}
}

func (bs *BarrierSet) abortAll() {
	bs.Start.DisableAndAbort()
	bs.Unclone.DisableAndAbort()
	bs.Run.DisableAndAbort()
	bs.Copy.DisableAndAbort()
	bs.End.DisableAndAbort()
}
