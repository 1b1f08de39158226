package track

// Ref is a raw handle to a block owned by the underlying allocator. 0 is the
// empty-slot sentinel; no live allocation is ever referenced by a zero Ref.
type Ref = uint32

// Tag is the fixed 4-byte label attached to an allocation. The bytes are
// opaque: no text encoding is assumed or enforced.
type Tag [4]byte

// MakeTag builds a Tag from the first four bytes of s. Shorter strings are
// padded with spaces.
func MakeTag(s string) Tag {
	tag := Tag{' ', ' ', ' ', ' '}
	copy(tag[:], s)
	return tag
}

// Descriptor records one tracked allocation. Descriptors are immutable after
// insertion; the whole slot is cleared back to the zero value on free.
type Descriptor struct {
	// Object is the exclusively-owned handle to the allocated block.
	Object Ref

	// Size is the requested byte count.
	Size int

	// Tag classifies the allocation.
	Tag Tag

	// Time is the monotonic creation time in milliseconds. Only meaningful
	// when the tracker was configured with TrackTime.
	Time uint32
}

// Valid reports whether the slot holds a live descriptor. Validity is
// determined solely by the Object field.
func (d Descriptor) Valid() bool { return d.Object != 0 }

// Allocator is the underlying dynamic memory allocator the tracker consumes.
// Implementations must be independently safe for concurrent use; the tracker
// calls them outside its table lock.
type Allocator interface {
	// Alloc returns a handle to a block with at least n usable bytes.
	Alloc(n int) (Ref, error)

	// Free releases the block at ref back to the allocator.
	Free(ref Ref) error

	// Bytes returns the payload of the live block at ref, or nil.
	Bytes(ref Ref) []byte
}

// Clock supplies monotonic millisecond timestamps for descriptors.
type Clock interface {
	Millis() uint32
}

// Snapshot is a consistent copy of the tracker's table and counters, taken
// under the lock and safe to inspect or format without further
// synchronization.
type Snapshot struct {
	// Slots is a copy of the full table, empty slots included, in table order.
	Slots []Descriptor

	// Count is the number of valid slots.
	Count int

	// TotalSize is the sum of valid descriptor sizes in bytes.
	TotalSize int

	// TrackTime records whether descriptor timestamps were being stamped.
	TrackTime bool
}

// Capacity returns the table capacity in entries at snapshot time.
func (s Snapshot) Capacity() int { return len(s.Slots) }

// Live returns the valid descriptors in table order.
func (s Snapshot) Live() []Descriptor {
	live := make([]Descriptor, 0, s.Count)
	for _, d := range s.Slots {
		if d.Valid() {
			live = append(live, d)
		}
	}
	return live
}
