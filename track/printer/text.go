package printer

import (
	"fmt"

	"github.com/joshuapare/memtag/track"
)

// printText writes the human-readable stats report: a header, a summary of
// count and byte total, then one line per entry.
func (p *Printer) printText(snap track.Snapshot) error {
	if _, err := fmt.Fprintln(p.w, "*** TAGGED ALLOCATION STATS ***"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "Allocation count: %d\n", snap.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "Total size: %d bytes\n", snap.TotalSize); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "Table capacity: %d entries\n", snap.Capacity()); err != nil {
		return err
	}

	for i, d := range snap.Slots {
		// Slot indexes are only interesting when holes are being shown.
		if p.opts.ShowEmpty {
			if _, err := fmt.Fprintf(p.w, "[%3d] ", i); err != nil {
				return err
			}
		}
		if !d.Valid() {
			if p.opts.ShowEmpty {
				if _, err := fmt.Fprintln(p.w, "(empty)"); err != nil {
					return err
				}
			}
			continue
		}
		if err := p.printEntry(d, snap.TrackTime); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printEntry(d track.Descriptor, trackTime bool) error {
	if _, err := fmt.Fprintf(p.w, "Tag: %s, Size: %d", FormatTag(d.Tag), d.Size); err != nil {
		return err
	}
	if trackTime && p.opts.ShowTimes {
		// Creation time in seconds to one decimal.
		if _, err := fmt.Fprintf(p.w, ", Time: %.1fs", float64(d.Time)/1000.0); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.w, ", Ref: 0x%08x\n", d.Object)
	return err
}
