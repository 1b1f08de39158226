package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memtag/track"
	"github.com/joshuapare/memtag/track/printer"
)

var statsShowEmpty bool

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsShowEmpty, "show-empty", false, "Include empty slots in the report")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the stats report for a scripted scenario",
		Long: `The stats command runs a short fixed scenario (a handful of tagged
allocations across pretend subsystems) and prints the allocation table
report, which is useful for eyeballing the output format.

Example:
  tagctl stats
  tagctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsScenario()
		},
	}
}

func runStatsScenario() error {
	tr, backing, err := newStack(1<<16, track.DefaultConfig())
	if err != nil {
		return err
	}
	defer backing.Close()

	sizes := []int{16, 64, 256, 24, 1024}
	for i, size := range sizes {
		if _, _, allocErr := tr.AllocBytes(size, workloadTags[i%len(workloadTags)]); allocErr != nil {
			return allocErr
		}
	}

	opts := printer.DefaultOptions()
	opts.ShowEmpty = statsShowEmpty
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	snap, err := tr.Snapshot()
	if err != nil {
		return err
	}
	return printer.New(os.Stdout, opts).Print(snap)
}
