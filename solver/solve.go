package solver

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result is what Solve hands back once every ring has stopped (§6
// "External interfaces").
type Result struct {
	Status   int32 // 0 unknown (interrupted), 10 SAT, 20 UNSAT
	Witness  []int8
	WinnerID int
	Stats    []Statistics
}

// Solve builds opts.Threads rings around ru, runs Simplify once up front,
// and lets the portfolio race to a verdict, returning once every ring has
// joined (§5 "Portfolio lifecycle"). ctx cancellation is treated the same
// as an external termination request.
func Solve(ctx context.Context, ru *Ruler, opts Options, logW zerolog.ConsoleWriter) Result {
	opts = opts.clamp()
	ru.Simplify(opts)
	if ru.Status() != 0 {
		return Result{Status: ru.Status()}
	}

	fabric := NewFabric(opts.Threads, opts.SharedBucketsPerTier)
	rings := make([]*Ring, opts.Threads)
	for i := range rings {
		logger := NewRingLogger(logW, i, i == 0)
		rings[i] = NewRing(i, ru.NVars, ru, opts, logger)
		rings[i].Fabric = fabric
		rings[i].rebuildFromRuler()
		if i%2 == 1 {
			rings[i].Mode = modeFocused
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range rings {
		r := r
		g.Go(func() error {
			watchTermination(gctx, ru)
			r.Run()
			return nil
		})
	}
	_ = g.Wait()

	winner := ru.Winner()
	res := Result{Status: ru.Status()}
	for _, r := range rings {
		res.Stats = append(res.Stats, r.Stats)
	}
	if winner != nil {
		res.WinnerID = winner.ID
		if res.Status == 10 {
			res.Witness = ru.Witness(winner)
		}
	}
	return res
}

// watchTermination starts one goroutine (unless ctx can never be
// cancelled) that waits for ctx to be done, then sets the ruler's
// termination flag and aborts all barriers so every ring
// observes it on its next loop iteration, mirroring the signal-driven
// abort in §4.12.
func watchTermination(ctx context.Context, ru *Ruler) {
	if ctx.Done() == nil {
		return
	}
	go func() {
		<-ctx.Done()
		ru.setTerminate()
		ru.Barriers.abortAll()
	}()
}
