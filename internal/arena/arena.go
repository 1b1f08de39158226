// Package arena implements the raw memory allocator that backs tracked
// allocations. It hands out blocks from a single fixed-capacity region,
// mapped anonymously on unix systems and heap-allocated elsewhere.
//
// Every block carries a 4-byte size header: the size is stored negated while
// the block is live and positive once it has been freed. Blocks are 8-byte
// aligned and never returned at offset 0, so a zero Ref can serve as the
// empty sentinel for callers.
//
// Freed blocks go onto a singly-linked first-fit free list and are split when
// the remainder is large enough to be useful. Adjacent free blocks are not
// coalesced; the tracker's workloads recycle a small set of sizes, so exact
// and split reuse covers them.
//
// An Arena is safe for concurrent use.
package arena

import (
	"fmt"
	"sync"
)

const (
	// headerSize is the per-block bookkeeping prefix holding the signed size.
	headerSize = 4

	// blockAlign is the alignment of every block start (and therefore of
	// every total block size).
	blockAlign = 8

	// minBlockSize is the smallest block worth carving out of a larger free
	// block when splitting.
	minBlockSize = 16

	// regionPad reserves the first bytes of the region so that no payload
	// ever sits at offset 0.
	regionPad = blockAlign

	// MinCapacity is the smallest region the arena will manage.
	MinCapacity = 64
)

// Ref is the offset of a block payload within the region. 0 is never handed
// out.
type Ref = uint32

// Arena allocates blocks from one contiguous memory region.
type Arena struct {
	mu      sync.Mutex
	data    []byte
	release func() error

	// end is the bump pointer: the start of the untouched tail of the region.
	end int32

	// free is the head of the first-fit free list.
	free *freeBlock

	liveCount int
	liveBytes int64
}

// freeBlock is a node in the free list. off is the block start (the header
// offset) and size the total block size, header included.
type freeBlock struct {
	off  int32
	size int32
	next *freeBlock
}

// New maps a region of the given capacity and returns an arena over it.
func New(capacity int) (*Arena, error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: capacity %d below minimum %d", ErrBadCapacity, capacity, MinCapacity)
	}
	if capacity > maxRegionSize {
		return nil, fmt.Errorf("%w: capacity %d exceeds %d", ErrBadCapacity, capacity, maxRegionSize)
	}
	data, release, err := mapRegion(capacity)
	if err != nil {
		return nil, fmt.Errorf("arena: map %d byte region: %w", capacity, err)
	}
	return &Arena{
		data:    data,
		release: release,
		end:     regionPad,
	}, nil
}

// maxRegionSize keeps block offsets representable as int32.
const maxRegionSize = 1 << 30

// Alloc returns a block with at least n usable bytes.
func (a *Arena) Alloc(n int) (Ref, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	// Bound-check before narrowing to int32: past this point block sizes and
	// offsets must stay representable.
	if n > maxRegionSize {
		return 0, fmt.Errorf("%w: need %d bytes, region limit %d", ErrNoSpace, n, maxRegionSize)
	}
	need := align8(int32(n) + headerSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data == nil {
		return 0, ErrClosed
	}

	if off, ok := a.takeFree(need); ok {
		return a.commit(off), nil
	}

	if int(a.end)+int(need) > len(a.data) {
		return 0, fmt.Errorf("%w: need %d bytes, %d left", ErrNoSpace, need, len(a.data)-int(a.end))
	}
	off := a.end
	a.end += need
	putI32(a.data, off, need)
	return a.commit(off), nil
}

// commit marks the block at off as live and returns its payload ref.
// Lock held by caller; the header at off must hold the positive block size.
func (a *Arena) commit(off int32) Ref {
	size := getI32(a.data, off)
	putI32(a.data, off, -size)
	a.liveCount++
	a.liveBytes += int64(size)
	return Ref(off + headerSize)
}

// takeFree pops a free block of at least need total bytes from the free
// list, splitting off the remainder when it is big enough to reuse.
// Lock held by caller.
func (a *Arena) takeFree(need int32) (int32, bool) {
	prev := (*freeBlock)(nil)
	for fb := a.free; fb != nil; prev, fb = fb, fb.next {
		if fb.size < need {
			continue
		}
		remainder := fb.size - need
		if remainder >= minBlockSize {
			// Split: keep the tail on the free list.
			tail := &freeBlock{off: fb.off + need, size: remainder, next: fb.next}
			putI32(a.data, tail.off, remainder)
			putI32(a.data, fb.off, need)
			if prev == nil {
				a.free = tail
			} else {
				prev.next = tail
			}
		} else {
			if prev == nil {
				a.free = fb.next
			} else {
				prev.next = fb.next
			}
		}
		return fb.off, true
	}
	return 0, false
}

// Free returns the block at ref to the arena. Freeing a ref that is not a
// live block reports ErrBadRef or ErrNotAllocated and leaves the region
// untouched.
func (a *Arena) Free(ref Ref) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data == nil {
		return ErrClosed
	}
	off, err := a.blockStart(ref)
	if err != nil {
		return err
	}
	size := getI32(a.data, off)
	if size >= 0 {
		return fmt.Errorf("%w: ref %#x", ErrNotAllocated, ref)
	}
	size = -size
	putI32(a.data, off, size)
	a.free = &freeBlock{off: off, size: size, next: a.free}
	a.liveCount--
	a.liveBytes -= int64(size)
	return nil
}

// Bytes returns the payload of the live block at ref. The slice aliases the
// region and stays valid until the block is freed.
func (a *Arena) Bytes(ref Ref) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data == nil {
		return nil
	}
	off, err := a.blockStart(ref)
	if err != nil {
		return nil
	}
	size := getI32(a.data, off)
	if size >= 0 {
		return nil
	}
	size = -size
	return a.data[off+headerSize : off+size]
}

// blockStart validates ref and returns the header offset of its block.
// Lock held by caller.
func (a *Arena) blockStart(ref Ref) (int32, error) {
	off := int32(ref) - headerSize
	if off < regionPad || off%blockAlign != 0 || int(ref) >= int(a.end) {
		return 0, fmt.Errorf("%w: %#x", ErrBadRef, ref)
	}
	return off, nil
}

// LiveCount reports the number of live blocks.
func (a *Arena) LiveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveCount
}

// LiveBytes reports the total size of live blocks, headers included.
func (a *Arena) LiveBytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveBytes
}

// Capacity reports the size of the managed region.
func (a *Arena) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.data)
}

// Close releases the region. Any outstanding refs become invalid.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data == nil {
		return nil
	}
	a.data = nil
	a.free = nil
	if a.release == nil {
		return nil
	}
	return a.release()
}

// align8 rounds n up to the next multiple of blockAlign.
func align8(n int32) int32 {
	return (n + blockAlign - 1) &^ (blockAlign - 1)
}
