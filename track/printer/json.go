package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/memtag/track"
)

// statsJSON is the JSON shape of a snapshot.
type statsJSON struct {
	Count     int         `json:"count"`
	TotalSize int         `json:"total_size"`
	Capacity  int         `json:"capacity"`
	Entries   []entryJSON `json:"entries"`
}

type entryJSON struct {
	Tag      string `json:"tag"`
	TagBytes []byte `json:"tag_bytes"`
	Size     int    `json:"size"`
	// Pointer so the field is omitted when times are off but a genuine
	// 0 ms stamp still serializes.
	TimeMS *uint32 `json:"time_ms,omitempty"`
	Ref    string  `json:"ref"`
}

// printJSON writes the snapshot as an indented JSON document.
func (p *Printer) printJSON(snap track.Snapshot) error {
	out := statsJSON{
		Count:     snap.Count,
		TotalSize: snap.TotalSize,
		Capacity:  snap.Capacity(),
		Entries:   make([]entryJSON, 0, snap.Count),
	}
	for _, d := range snap.Live() {
		e := entryJSON{
			Tag:      FormatTag(d.Tag),
			TagBytes: append([]byte(nil), d.Tag[:]...),
			Size:     d.Size,
			Ref:      fmt.Sprintf("0x%08x", d.Object),
		}
		if snap.TrackTime && p.opts.ShowTimes {
			ms := d.Time
			e.TimeMS = &ms
		}
		out.Entries = append(out.Entries, e)
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
