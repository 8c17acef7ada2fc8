// Command parasat reads a DIMACS CNF instance and reports SAT/UNSAT using
// a portfolio of CDCL worker rings (spec §6 "External interfaces").
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/xDarkicex/parasat/internal/dimacs"
	"github.com/xDarkicex/parasat/internal/drat"
	"github.com/xDarkicex/parasat/solver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("parasat", flag.ContinueOnError)
	threads := fs.Int("threads", 1, "number of worker rings")
	conflicts := fs.Int64("conflicts", 0, "conflict limit, 0 = unlimited")
	seconds := fs.Int64("time", 0, "wall-clock limit in seconds, 0 = unlimited")
	noWitness := fs.Bool("no-witness", false, "suppress the satisfying assignment on SAT")
	noWalk := fs.Bool("no-walk", false, "disable the local-search walker")
	walkInitially := fs.Bool("walk-initially", false, "run the walker once before the first conflict")
	noSimplify := fs.Bool("no-simplify", false, "disable periodic inprocessing rendezvous")
	verbose := fs.Bool("v", false, "verbose per-ring trace logging")
	proofPath := fs.String("proof", "", "write a DRAT proof to this path")
	binaryProof := fs.Bool("binary-proof", false, "write the proof in binary DRAT instead of text")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: parasat [flags] <dimacs-file>")
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "parasat:", err)
		return 2
	}
	defer f.Close()

	problem, err := dimacs.Read(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parasat:", err)
		return 2
	}

	opts := solver.DefaultOptions()
	opts.Threads = *threads
	opts.ConflictLimit = *conflicts
	opts.NoWalk = *noWalk
	opts.WalkInitially = *walkInitially
	opts.NoSimplify = *noSimplify

	ru := solver.NewRuler(problem.NVars, opts.Threads)
	for _, c := range problem.Clauses {
		ru.AddClause(toLits(c))
	}

	if *proofPath != "" {
		pf, err := os.Create(*proofPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parasat:", err)
			return 2
		}
		defer pf.Close()
		var tracer *drat.Tracer
		if *binaryProof {
			tracer = drat.NewBinary(pf)
		} else {
			tracer = drat.NewText(pf)
		}
		defer tracer.Flush()
		ru.Tracer = tracer
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *seconds > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, time.Duration(*seconds)*time.Second)
		defer timeoutCancel()
	}
	installSignalReraise(cancel)

	logW := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}
	if !*verbose {
		logW.Out = io.Discard
	}
	result := solver.Solve(ctx, ru, opts, logW)

	switch result.Status {
	case 10:
		fmt.Println("s SATISFIABLE")
		if !*noWitness {
			printWitness(result.Witness)
		}
		return 10
	case 20:
		fmt.Println("s UNSATISFIABLE")
		return 20
	default:
		fmt.Println("s UNKNOWN")
		return 0
	}
}

func toLits(dimacsClause []int32) []solver.Lit {
	out := make([]solver.Lit, len(dimacsClause))
	for i, x := range dimacsClause {
		out[i] = solver.DimacsToLit(x)
	}
	return out
}

func printWitness(values []int8) {
	const perLine = 10
	fmt.Print("v")
	for i, v := range values {
		if i%perLine == 0 && i != 0 {
			fmt.Print("\nv")
		}
		dimacsVar := int32(i) + 1
		if v < 0 {
			dimacsVar = -dimacsVar
		}
		fmt.Printf(" %d", dimacsVar)
	}
	fmt.Println(" 0")
}

// installSignalReraise cancels the solve's context on SIGINT/SIGTERM so
// the portfolio winds down cleanly, then re-raises the same signal with
// the default disposition restored once the process would otherwise
// exit, matching the "dump stats, then behave as if unhandled" contract
// original_source/catch.c uses for its own signal handler.
func installSignalReraise(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		cancel()
		signal.Reset(sig)
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			p.Signal(sig)
		}
	}()
}
