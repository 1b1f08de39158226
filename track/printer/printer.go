// Package printer formats tracker snapshots for diagnostic output.
//
// Formatting always works on a track.Snapshot, never on a live tracker, so
// slow sinks (serial consoles, files, terminals) cannot extend the tracker's
// critical section.
package printer

import (
	"io"

	"github.com/joshuapare/memtag/track"
)

// Format specifies the output format.
type Format string

const (
	// FormatText outputs the human-readable stats report.
	FormatText Format = "text"

	// FormatJSON outputs a JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies the output format (text or json).
	// Default: FormatText
	Format Format

	// ShowTimes includes descriptor creation times. Ignored when the
	// snapshot was taken without time tracking.
	// Default: true
	ShowTimes bool

	// ShowEmpty lists empty slots as placeholders in text output, which
	// makes fragmentation visible.
	// Default: false
	ShowEmpty bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:    FormatText,
		ShowTimes: true,
		ShowEmpty: false,
	}
}

// Printer writes formatted snapshots to a sink.
type Printer struct {
	w    io.Writer
	opts Options
}

// New creates a Printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// Print renders the snapshot in the configured format.
func (p *Printer) Print(snap track.Snapshot) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(snap)
	default:
		return p.printText(snap)
	}
}

// PrintStats snapshots the tracker and writes the default text report to w.
// This is the convenience entry point for diagnostic dumps.
func PrintStats(w io.Writer, t *track.Tracker) error {
	snap, err := t.Snapshot()
	if err != nil {
		return err
	}
	return New(w, DefaultOptions()).Print(snap)
}
