package printer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memtag/track"
)

func sampleSnapshot() track.Snapshot {
	return track.Snapshot{
		Slots: []track.Descriptor{
			{Object: 0x0C, Size: 8, Tag: track.MakeTag("abcd"), Time: 1500},
			{},
			{Object: 0x20, Size: 128, Tag: track.MakeTag("FlAr"), Time: 2250},
			{},
		},
		Count:     2,
		TotalSize: 136,
		TrackTime: true,
	}
}

func TestTextReport(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.Print(sampleSnapshot()))

	out := buf.String()
	require.Contains(t, out, "*** TAGGED ALLOCATION STATS ***")
	require.Contains(t, out, "Allocation count: 2")
	require.Contains(t, out, "Total size: 136 bytes")
	require.Contains(t, out, "Table capacity: 4 entries")
	require.Contains(t, out, "Tag: abcd, Size: 8, Time: 1.5s, Ref: 0x0000000c")
	require.Contains(t, out, "Tag: FlAr, Size: 128, Time: 2.2s, Ref: 0x00000020")
	require.NotContains(t, out, "(empty)")
}

func TestTextReportShowEmpty(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowEmpty = true
	require.NoError(t, New(&buf, opts).Print(sampleSnapshot()))

	require.Equal(t, 2, strings.Count(buf.String(), "(empty)"))
}

func TestTextReportWithoutTimes(t *testing.T) {
	snap := sampleSnapshot()
	snap.TrackTime = false

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Print(snap))
	require.NotContains(t, buf.String(), "Time:")
}

func TestJSONReport(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).Print(sampleSnapshot()))

	var got statsJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 2, got.Count)
	require.Equal(t, 136, got.TotalSize)
	require.Equal(t, 4, got.Capacity)
	require.Len(t, got.Entries, 2)
	require.Equal(t, "abcd", got.Entries[0].Tag)
	require.NotNil(t, got.Entries[0].TimeMS)
	require.EqualValues(t, 1500, *got.Entries[0].TimeMS)
	require.Equal(t, "0x0000000c", got.Entries[0].Ref)
	require.Equal(t, []byte("FlAr"), got.Entries[1].TagBytes)
}

func TestJSONReportKeepsZeroTimestamp(t *testing.T) {
	snap := sampleSnapshot()
	snap.Slots[0].Time = 0 // allocated at the tracker's origin

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).Print(snap))

	require.Contains(t, buf.String(), `"time_ms": 0`)

	var got statsJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NotNil(t, got.Entries[0].TimeMS)
	require.Zero(t, *got.Entries[0].TimeMS)
}

func TestJSONReportOmitsTimesWhenDisabled(t *testing.T) {
	snap := sampleSnapshot()
	snap.TrackTime = false

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).Print(snap))
	require.NotContains(t, buf.String(), "time_ms")
}

// failingWriter errors on the nth Write call and succeeds before it.
type failingWriter struct {
	failOn int
	calls  int
}

var errWriterBroken = errors.New("writer broken")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls >= w.failOn {
		return 0, errWriterBroken
	}
	return len(p), nil
}

func TestTextReportSurfacesWriteErrors(t *testing.T) {
	// The report is written line by line; a failure at any point must reach
	// the caller, not just one on the header.
	for failOn := 1; failOn <= 6; failOn++ {
		opts := DefaultOptions()
		opts.ShowEmpty = true
		err := New(&failingWriter{failOn: failOn}, opts).Print(sampleSnapshot())
		require.ErrorIs(t, err, errWriterBroken, "write %d", failOn)
	}
}

func TestFormatTag(t *testing.T) {
	cases := []struct {
		name string
		tag  track.Tag
		want string
	}{
		{"plain ascii", track.MakeTag("abcd"), "abcd"},
		{"padded", track.MakeTag("ab"), "ab  "},
		{"control bytes", track.Tag{0x00, 0x01, 'a', 'b'}, "..ab"},
		{"windows-1252 extended", track.Tag{0xE9, 't', 0xE9, '!'}, "été!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatTag(tc.tag))
		})
	}
}
