package arena

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestArena(t *testing.T, capacity int) *Arena {
	t.Helper()
	a, err := New(capacity)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func TestNewRejectsBadCapacity(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, ErrBadCapacity)

	_, err = New(MinCapacity - 1)
	require.ErrorIs(t, err, ErrBadCapacity)
}

func TestAllocAlignmentAndNonZeroRefs(t *testing.T) {
	a := newTestArena(t, 4096)

	for _, n := range []int{1, 3, 8, 13, 64, 200} {
		ref, err := a.Alloc(n)
		require.NoError(t, err)
		require.NotZero(t, ref, "refs must never be zero (zero is the caller's sentinel)")
		require.EqualValues(t, 0, (ref-headerSize)%blockAlign, "block starts must be 8-byte aligned")

		buf := a.Bytes(ref)
		require.GreaterOrEqual(t, len(buf), n)
	}
}

func TestAllocRejectsBadSize(t *testing.T) {
	a := newTestArena(t, 4096)

	_, err := a.Alloc(0)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = a.Alloc(-7)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestNeighborIntegrity(t *testing.T) {
	a := newTestArena(t, 4096)

	ref1, err := a.Alloc(64)
	require.NoError(t, err)
	ref2, err := a.Alloc(64)
	require.NoError(t, err)

	buf1 := a.Bytes(ref1)
	buf2 := a.Bytes(ref2)

	for i := range buf1 {
		buf1[i] = 0xAA
	}
	for i := range buf2 {
		buf2[i] = 0xBB
	}

	for i, b := range buf1 {
		require.Equal(t, byte(0xAA), b, "block 1 corrupted at offset %d", i)
	}

	require.NoError(t, a.Free(ref1))

	for i, b := range buf2 {
		require.Equal(t, byte(0xBB), b, "block 2 corrupted at offset %d after freeing block 1", i)
	}
}

func TestFreeAndReuse(t *testing.T) {
	a := newTestArena(t, 4096)

	ref1, err := a.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref1))

	// Same-size allocation should come straight off the free list.
	ref2, err := a.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, ref1, ref2)
}

func TestFreeListSplit(t *testing.T) {
	a := newTestArena(t, 4096)

	big, err := a.Alloc(256)
	require.NoError(t, err)
	require.NoError(t, a.Free(big))

	// A small allocation should reuse the front of the freed block...
	small, err := a.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, big, small)

	// ...and the tail remainder should satisfy the next one without bumping.
	end := a.end
	_, err = a.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, end, a.end, "second allocation should come from the split remainder")
}

func TestDoubleFree(t *testing.T) {
	a := newTestArena(t, 4096)

	ref, err := a.Alloc(32)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))
	require.ErrorIs(t, a.Free(ref), ErrNotAllocated)
}

func TestFreeBadRef(t *testing.T) {
	a := newTestArena(t, 4096)

	require.ErrorIs(t, a.Free(0), ErrBadRef)
	require.ErrorIs(t, a.Free(3), ErrBadRef)

	// Past the bump pointer: nothing has ever lived there.
	require.ErrorIs(t, a.Free(2052), ErrBadRef)
}

func TestExhaustion(t *testing.T) {
	a := newTestArena(t, MinCapacity)

	// First allocation fits, the second cannot.
	_, err := a.Alloc(24)
	require.NoError(t, err)

	_, err = a.Alloc(64)
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestAllocRejectsOversizeRequests(t *testing.T) {
	a := newTestArena(t, 4096)

	// Sizes past the region limit would truncate when narrowed to the int32
	// header width; they must fail cleanly instead of moving the bump pointer.
	huge := maxRegionSize + 1
	if bits.UintSize == 64 {
		huge <<= 2 // past int32 range on 64-bit platforms
	}
	for _, n := range []int{maxRegionSize + 1, huge} {
		_, err := a.Alloc(n)
		require.ErrorIs(t, err, ErrNoSpace, "size %d", n)
	}
	require.EqualValues(t, regionPad, a.end, "failed allocations must not consume region")

	// An oversize request must not be served from the free list either.
	ref, err := a.Alloc(256)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))

	_, err = a.Alloc(huge)
	require.ErrorIs(t, err, ErrNoSpace)

	// The arena stays usable: the freed block is still available for a sane
	// request.
	again, err := a.Alloc(256)
	require.NoError(t, err)
	require.Equal(t, ref, again)
	require.Equal(t, 1, a.LiveCount())
}

func TestLiveAccounting(t *testing.T) {
	a := newTestArena(t, 4096)

	require.Zero(t, a.LiveCount())
	require.Zero(t, a.LiveBytes())

	ref1, err := a.Alloc(32)
	require.NoError(t, err)
	ref2, err := a.Alloc(64)
	require.NoError(t, err)

	require.Equal(t, 2, a.LiveCount())
	require.EqualValues(t, align8(32+headerSize)+align8(64+headerSize), a.LiveBytes())

	require.NoError(t, a.Free(ref1))
	require.NoError(t, a.Free(ref2))

	require.Zero(t, a.LiveCount())
	require.Zero(t, a.LiveBytes())
}

func TestBytesAfterFree(t *testing.T) {
	a := newTestArena(t, 4096)

	ref, err := a.Alloc(32)
	require.NoError(t, err)
	require.NotNil(t, a.Bytes(ref))

	require.NoError(t, a.Free(ref))
	require.Nil(t, a.Bytes(ref))
}

func TestUseAfterClose(t *testing.T) {
	a, err := New(4096)
	require.NoError(t, err)

	ref, err := a.Alloc(32)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "Close must be idempotent")

	_, err = a.Alloc(32)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, a.Free(ref), ErrClosed)
	require.Nil(t, a.Bytes(ref))
}
