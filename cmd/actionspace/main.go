package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"gym-chess/actionspace"
	"gym-chess/engine"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the exit code so that deferred profile and output flushes
// happen before main exits.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("actionspace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", engine.StartFEN, "FEN string (defaults to initial position)")
	backend := fs.String("backend", engine.DefaultBackend, "Move generator backend")
	legalOnly := fs.Bool("legal-only", false, "Only print the legal actions of -fen")
	perftDepth := fs.Int("perft", 0, "Print per-action perft leaf counts at this depth")
	repeat := fs.Int("repeat", 0, "Time N index builds of -fen instead of printing")
	label := fs.String("label", "", "Optional label prefix for one-line timing output")
	cpuProf := fs.String("cpuprofile", "", "Write CPU profile to file during run")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(stderr, "creating cpuprofile: %v\n", err)
			return 2
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "start cpu profile: %v\n", err)
			return 2
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()

	if *perftDepth > 0 {
		div, err := engine.PerftDivide(*backend, *fen, *perftDepth)
		if err != nil {
			fmt.Fprintf(stderr, "perft: %v\n", err)
			return 2
		}
		ids := make([]actionspace.ActionID, 0, len(div))
		var sum uint64
		for id, n := range div {
			ids = append(ids, id)
			sum += n
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(w, "%d %s: %d\n", id, actionspace.Describe(id), div[id])
		}
		fmt.Fprintf(w, "Total: %d\n", sum)
		return 0
	}

	if !*legalOnly && *repeat <= 0 {
		fmt.Fprintln(w, "ID\tFROM\tTO\tBAND\tCATEGORY")
		for _, d := range actionspace.Table() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.From, target(d), d.Category.Band(), d.Category)
		}
		return 0
	}

	pos, err := engine.Open(*backend, *fen)
	if err != nil {
		fmt.Fprintf(stderr, "open position: %v\n", err)
		return 2
	}

	if *repeat > 0 {
		moves := pos.LegalMoves()
		start := time.Now()
		for i := 0; i < *repeat; i++ {
			idx, err := actionspace.BuildIndex(moves, engine.Geometry)
			if err != nil {
				fmt.Fprintf(stderr, "index: %v\n", err)
				return 1
			}
			_ = idx.Mask()
		}
		elapsed := time.Since(start)
		per := elapsed / time.Duration(*repeat)
		if *label != "" {
			fmt.Fprintf(w, "%s\t%d moves\t%d builds\t%s\t%s/build\n", *label, len(moves), *repeat, elapsed.Truncate(time.Microsecond), per)
		} else {
			fmt.Fprintf(w, "moves=%d builds=%d time=%s per_build=%s\n", len(moves), *repeat, elapsed.Truncate(time.Microsecond), per)
		}
		return 0
	}

	idx, err := actionspace.BuildIndex(pos.LegalMoves(), engine.Geometry)
	if err != nil {
		fmt.Fprintf(stderr, "index: %v\n", err)
		return 1
	}
	for _, a := range idx.Actions() {
		d, _ := actionspace.Decode(a.ID)
		fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Move, d.Category)
	}
	fmt.Fprintf(w, "Total: %d\n", idx.Len())
	return 0
}

func target(d actionspace.Decoded) string {
	if !d.OnBoard() {
		return "-"
	}
	return d.To.String()
}
