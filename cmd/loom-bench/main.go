// Command loom-bench drives the counter, counterdeps, matmul, and lu
// example workloads from the command line, the way the original
// implementation exposed each example as its own clap-based binary. Here
// they're subcommands of one tool instead, each with its own
// flag.FlagSet, matching how the teacher's taskstore service binaries
// parse flags with the stdlib flag package.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/loomrt/loom/examples/counter"
	"github.com/loomrt/loom/examples/counterdeps"
	"github.com/loomrt/loom/examples/lu"
	"github.com/loomrt/loom/examples/matmul"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "counter":
		err = runCounter(os.Args[2:])
	case "counterdeps":
		err = runCounterDeps(os.Args[2:])
	case "matmul":
		err = runMatmul(os.Args[2:])
	case "lu":
		err = runLU(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("loom-bench: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: loom-bench <counter|counterdeps|matmul|lu> [flags]")
}

func runCounter(args []string) error {
	fs := flag.NewFlagSet("counter", flag.ExitOnError)
	nbTasks := fs.Uint64("n-tasks", 1000, "number of tasks to submit")
	n := fs.Uint64("n", 1000, "number of spin iterations per task")
	nbThreads := fs.Int("nb-threads", 2, "number of worker threads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return counter.Run(counter.Config{NbThreads: *nbThreads, NbTasks: *nbTasks, N: *n})
}

func runCounterDeps(args []string) error {
	fs := flag.NewFlagSet("counterdeps", flag.ExitOnError)
	nbTasks := fs.Uint64("n-tasks", 1000, "number of tasks to submit")
	n := fs.Uint64("n", 1000, "number of spin iterations per task")
	nbThreads := fs.Int("nb-threads", 2, "number of worker threads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return counterdeps.Run(counterdeps.Config{NbThreads: *nbThreads, NbTasks: *nbTasks, N: *n})
}

func runMatmul(args []string) error {
	fs := flag.NewFlagSet("matmul", flag.ExitOnError)
	n := fs.Int("n", 1, "number of runs")
	nbIncrements := fs.Uint64("nb-increments", 64, "number of counter increments per GEMM task")
	nbThreads := fs.Int("nb-threads", 2, "number of worker threads")
	nbTiles := fs.Int("nb-tiles", 24, "number of tiles per row/column")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return matmul.Run(matmul.Config{
		NbThreads:    *nbThreads,
		NbTiles:      *nbTiles,
		NbRepeats:    *n,
		NbIncrements: *nbIncrements,
	})
}

func runLU(args []string) error {
	fs := flag.NewFlagSet("lu", flag.ExitOnError)
	nRepeat := fs.Int("n-repeat", 1, "number of LU factorizations")
	n := fs.Uint64("n", 1000, "number of spin iterations per task")
	nbThreads := fs.Int("nb-threads", 2, "number of worker threads")
	block2D := fs.Bool("2d", false, "use 2D block cyclic mapping (requires nb-threads=24)")
	block1D := fs.Bool("1d", false, "use 1D block cyclic mapping")
	nbTilesRow := fs.Int("nb-tiles-row", 30, "number of tile rows")
	nbTilesCol := fs.Int("nb-tiles-col", 32, "number of tile columns")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := lu.Config{
		NbThreads:  *nbThreads,
		NbTilesRow: *nbTilesRow,
		NbTilesCol: *nbTilesCol,
		NRepeat:    *nRepeat,
		N:          *n,
		Mapping:    lu.RoundRobin,
	}
	switch {
	case *block2D:
		if *nbThreads != 24 {
			return fmt.Errorf("the 2D block cyclic mapping assumes 24 threads")
		}
		cfg.Mapping = lu.BlockCyclic2D
		cfg.NbThreadsRow, cfg.NbThreadsCol = 4, 6
	case *block1D:
		cfg.Mapping = lu.BlockCyclic1D
	}
	return lu.Run(cfg)
}
