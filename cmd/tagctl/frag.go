package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memtag/track"
	"github.com/joshuapare/memtag/track/printer"
)

var fragEntries int

func init() {
	cmd := newFragCmd()
	cmd.Flags().IntVar(&fragEntries, "entries", 96, "Entries to allocate before fragmenting")
	rootCmd.AddCommand(cmd)
}

func newFragCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frag",
		Short: "Demonstrate fragmentation and the shrink-time compaction",
		Long: `The frag command fills the table, frees alternating entries to punch
holes, then drains until the shrink hysteresis fires. It reports capacity
before and after, and can show the table layout at each stage.

Example:
  tagctl frag --entries 128
  tagctl frag -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrag()
		},
	}
}

func runFrag() error {
	tr, backing, err := newStack(1<<20, track.DefaultConfig())
	if err != nil {
		return err
	}
	defer backing.Close()

	refs := make([]track.Ref, 0, fragEntries)
	for i := 0; i < fragEntries; i++ {
		ref, _, allocErr := tr.AllocBytes(32, workloadTags[i%len(workloadTags)])
		if allocErr != nil {
			return allocErr
		}
		refs = append(refs, ref)
	}

	fullCap, err := tr.Capacity()
	if err != nil {
		return err
	}
	printInfo("Filled table: %d entries, capacity %d\n", fragEntries, fullCap)

	// Punch holes: free every other entry so live descriptors sit behind gaps.
	survivors := refs[:0]
	for i, ref := range refs {
		if i%2 == 0 {
			if freeErr := tr.Free(ref); freeErr != nil {
				return freeErr
			}
		} else {
			survivors = append(survivors, ref)
		}
	}

	holeyCap, err := tr.Capacity()
	if err != nil {
		return err
	}
	count, err := tr.Count()
	if err != nil {
		return err
	}
	printInfo("Fragmented table: %d live entries, capacity %d\n", count, holeyCap)

	if verbose {
		opts := printer.DefaultOptions()
		opts.ShowEmpty = true
		snap, snapErr := tr.Snapshot()
		if snapErr != nil {
			return snapErr
		}
		if printErr := printer.New(os.Stdout, opts).Print(snap); printErr != nil {
			return printErr
		}
	}

	// Drain the rest; the shrink path compacts before dropping the tail.
	for _, ref := range survivors {
		if freeErr := tr.Free(ref); freeErr != nil {
			return freeErr
		}
	}

	finalCap, err := tr.Capacity()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"entries":           fragEntries,
			"capacity_full":     fullCap,
			"capacity_holey":    holeyCap,
			"capacity_final":    finalCap,
			"reclaimed_entries": fullCap - finalCap,
		})
	}

	fmt.Printf("Drained table: capacity %d -> %d (%d entries reclaimed)\n",
		fullCap, finalCap, fullCap-finalCap)
	return nil
}
