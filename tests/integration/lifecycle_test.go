package integration

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memtag/internal/arena"
	"github.com/joshuapare/memtag/track"
	"github.com/joshuapare/memtag/track/printer"
)

// newStack builds the full stack: an mmap-backed arena under a tracker.
func newStack(t *testing.T, cfg track.Config) (*track.Tracker, *arena.Arena) {
	t.Helper()
	a, err := arena.New(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	tr, err := track.New(a, &cfg)
	require.NoError(t, err)
	tr.Init()
	return tr, a
}

func smallConfig() track.Config {
	cfg := track.DefaultConfig()
	cfg.MinTableSize = 4
	cfg.InitialTableSize = 4
	cfg.ExpandStep = 4
	cfg.ShrinkStep = 8
	return cfg
}

func TestLifecycleAgainstArena(t *testing.T) {
	tr, backing := newStack(t, smallConfig())

	var i int
	var f float32

	obj, objBuf, err := track.Alloc[int](tr, track.MakeTag("abcd"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(objBuf), int(unsafe.Sizeof(i)))

	arr, arrBuf, err := track.AllocArray[float32](tr, 32, track.MakeTag("FlAr"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(arrBuf), 32*int(unsafe.Sizeof(f)))

	count, err := tr.Count()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	total, err := tr.TotalSize()
	require.NoError(t, err)
	require.Equal(t, int(unsafe.Sizeof(i))+32*int(unsafe.Sizeof(f)), total)

	require.Equal(t, 2, backing.LiveCount())

	require.NoError(t, tr.Free(obj))
	require.NoError(t, tr.Free(arr))

	count, err = tr.Count()
	require.NoError(t, err)
	require.Zero(t, count)
	require.Zero(t, backing.LiveCount(), "tracker and arena accounting must agree")
}

func TestGrowShrinkCycleAgainstArena(t *testing.T) {
	tr, backing := newStack(t, smallConfig())

	refs := make([]track.Ref, 0, 32)
	for i := 0; i < 32; i++ {
		ref, _, err := tr.AllocBytes(64, track.MakeTag("load"))
		require.NoError(t, err)
		refs = append(refs, ref)
	}

	capacity, err := tr.Capacity()
	require.NoError(t, err)
	require.Equal(t, 32, capacity)

	for _, ref := range refs[:28] {
		require.NoError(t, tr.Free(ref))
	}

	capacity, err = tr.Capacity()
	require.NoError(t, err)
	require.Less(t, capacity, 32, "draining must shrink the table")
	require.GreaterOrEqual(t, capacity, 4)

	// The freed arena blocks are reusable: the next burst must not exhaust
	// the region even though it churns many times its live footprint.
	for round := 0; round < 100; round++ {
		ref, _, err := tr.AllocBytes(64, track.MakeTag("chrn"))
		require.NoError(t, err)
		require.NoError(t, tr.Free(ref))
	}

	require.Equal(t, 4, backing.LiveCount())
}

func TestStatsReportEndToEnd(t *testing.T) {
	tr, _ := newStack(t, smallConfig())

	_, _, err := track.Alloc[uint64](tr, track.MakeTag("hdrs"))
	require.NoError(t, err)
	_, _, err = track.AllocArray[byte](tr, 100, track.MakeTag("buf "))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printer.PrintStats(&out, tr))

	report := out.String()
	require.Contains(t, report, "Allocation count: 2")
	require.Contains(t, report, "Total size: 108 bytes")
	require.Contains(t, report, "Tag: hdrs")
	require.Contains(t, report, "Tag: buf ")
}
