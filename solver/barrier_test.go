package solver

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBarrierRendezvousReleasesAllParticipants(t *testing.T) {
	const n = 5
	b := NewBarrier(n)
	var before, after atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			before.Add(1)
			ok := b.Rendezvous()
			if !ok {
				t.Error("Rendezvous() returned false on a normal round")
			}
			after.Add(1)
		}()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("barrier never released all participants")
	}
	if before.Load() != n || after.Load() != n {
		t.Fatalf("before=%d after=%d, want %d both", before.Load(), after.Load(), n)
	}
}

func TestBarrierRendezvousReusableAcrossRounds(t *testing.T) {
	const n = 3
	b := NewBarrier(n)
	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				if !b.Rendezvous() {
					t.Error("Rendezvous() returned false on a normal round")
				}
			}()
		}
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d never completed", round)
		}
	}
}

func TestBarrierDisableAndAbortWakesWaiters(t *testing.T) {
	const n = 3
	b := NewBarrier(n)
	var results [n - 1]bool
	var wg sync.WaitGroup
	wg.Add(n - 1)
	for i := 0; i < n-1; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = b.Rendezvous()
		}()
	}
	// Give the waiters a moment to block before aborting; n-1 of n
	// participants never arrives, so without DisableAndAbort this would
	// hang forever.
	time.Sleep(50 * time.Millisecond)
	b.DisableAndAbort()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("DisableAndAbort did not wake pending waiters")
	}
	for i, ok := range results {
		if ok {
			t.Errorf("waiter %d: Rendezvous() = true, want false after abort", i)
		}
	}
}

func TestBarrierDisabledRendezvousReturnsFalseImmediately(t *testing.T) {
	b := NewBarrier(2)
	b.DisableAndAbort()
	if b.Rendezvous() {
		t.Fatal("Rendezvous() on an already-disabled barrier must return false")
	}
}

func TestBarrierSetAbortAllDisablesEveryBarrier(t *testing.T) {
	bs := NewBarrierSet(2)
	bs.abortAll()
	for name, b := range map[string]*Barrier{
		"Start": bs.Start, "Unclone": bs.Unclone, "Run": bs.Run, "Copy": bs.Copy, "End": bs.End,
	} {
		if b.Rendezvous() {
			t.Errorf("%s barrier not disabled after abortAll", name)
		}
	}
}
