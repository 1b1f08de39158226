package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memtag/track"
	"github.com/joshuapare/memtag/track/printer"
)

var (
	runOps     int
	runSeed    int64
	runMaxSize int
	runArena   int
	runTable   bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runOps, "ops", 10000, "Number of allocate/free operations")
	cmd.Flags().Int64Var(&runSeed, "seed", 1, "Workload random seed")
	cmd.Flags().IntVar(&runMaxSize, "max-size", 256, "Largest single allocation in bytes")
	cmd.Flags().IntVar(&runArena, "arena", 1<<20, "Backing arena capacity in bytes")
	cmd.Flags().BoolVar(&runTable, "table", false, "Print the final allocation table")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a randomized allocate/free workload",
		Long: `The run command drives a seeded random mix of allocations and frees
against a fresh tracker and reports the resulting table statistics.

Example:
  tagctl run --ops 100000 --seed 7
  tagctl run --ops 50000 --max-size 1024 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload()
		},
	}
}

type runResult struct {
	Ops          int   `json:"ops"`
	Seed         int64 `json:"seed"`
	Allocs       int   `json:"allocs"`
	Frees        int   `json:"frees"`
	PeakCount    int   `json:"peak_count"`
	PeakCapacity int   `json:"peak_capacity"`
	FinalCount   int   `json:"final_count"`
	FinalSize    int   `json:"final_size"`
	Capacity     int   `json:"capacity"`
}

func runWorkload() error {
	tr, backing, err := newStack(runArena, track.DefaultConfig())
	if err != nil {
		return err
	}
	defer backing.Close()

	printVerbose("Running %d ops (seed %d, max size %d)\n", runOps, runSeed, runMaxSize)

	rng := rand.New(rand.NewSource(runSeed))
	var bar *progressbar.ProgressBar
	if !quiet && !jsonOut {
		bar = progressbar.Default(int64(runOps))
	}

	var live []track.Ref
	res := runResult{Ops: runOps, Seed: runSeed}

	for op := 0; op < runOps; op++ {
		if len(live) == 0 || rng.Intn(100) < 55 {
			size := 1 + rng.Intn(runMaxSize)
			tag := workloadTags[rng.Intn(len(workloadTags))]
			ref, _, allocErr := tr.AllocBytes(size, tag)
			if allocErr != nil {
				return fmt.Errorf("op %d: %w", op, allocErr)
			}
			live = append(live, ref)
			res.Allocs++
		} else {
			i := rng.Intn(len(live))
			ref := live[i]
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			if freeErr := tr.Free(ref); freeErr != nil {
				return fmt.Errorf("op %d: %w", op, freeErr)
			}
			res.Frees++
		}

		if len(live) > res.PeakCount {
			res.PeakCount = len(live)
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		capacity, capErr := tr.Capacity()
		if capErr != nil {
			return capErr
		}
		if capacity > res.PeakCapacity {
			res.PeakCapacity = capacity
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if res.FinalCount, err = tr.Count(); err != nil {
		return err
	}
	if res.FinalSize, err = tr.TotalSize(); err != nil {
		return err
	}
	if res.Capacity, err = tr.Capacity(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("\nWorkload complete:\n")
	printInfo("  Operations:     %d (%d allocs, %d frees)\n", res.Ops, res.Allocs, res.Frees)
	printInfo("  Peak live:      %d entries\n", res.PeakCount)
	printInfo("  Peak capacity:  %d entries\n", res.PeakCapacity)
	printInfo("  Final live:     %d entries, %d bytes\n", res.FinalCount, res.FinalSize)
	printInfo("  Final capacity: %d entries\n", res.Capacity)

	if runTable {
		printInfo("\n")
		return printer.PrintStats(os.Stdout, tr)
	}
	return nil
}
