package track

// table is the descriptor store: a slice of slots plus an incrementally
// maintained count of valid entries.
//
// None of these methods synchronize. Callers hold the tracker's lock for the
// whole call.
type table struct {
	slots []Descriptor
	count int
	min   int
}

func newTable(initial, minimum int) *table {
	if initial < minimum {
		initial = minimum
	}
	return &table{
		slots: make([]Descriptor, initial),
		min:   minimum,
	}
}

// capacity is the current table size in entries.
func (t *table) capacity() int { return len(t.slots) }

// firstEmpty returns the index of the first empty slot, or -1 when the table
// is full. Linear scan; capacities stay in the tens-to-hundreds range.
func (t *table) firstEmpty() int {
	for i := range t.slots {
		if !t.slots[i].Valid() {
			return i
		}
	}
	return -1
}

// fragmented scans forward from start and reports whether a valid entry
// exists after a gap of empty entries. On a fragmented table it returns the
// first empty index and the first valid index after it. A table with every
// hole at the tail is not fragmented and is safe to shrink.
func (t *table) fragmented(start int) (firstEmpty, firstValid int, frag bool) {
	firstEmpty = -1
	for i := start; i < len(t.slots); i++ {
		if !t.slots[i].Valid() {
			if firstEmpty < 0 {
				firstEmpty = i
			}
			continue
		}
		if firstEmpty >= 0 {
			return firstEmpty, i, true
		}
	}
	return firstEmpty, -1, false
}

// defrag compacts valid descriptors into a dense prefix: each round moves
// the first valid entry after the first hole into that hole, restarting the
// scan at the hole just filled. Worst case approaches O(n^2), tolerated
// because it only runs before a shrink.
//
// Postcondition: slots [0, count) are valid and [count, capacity) are empty.
func (t *table) defrag() {
	start := 0
	for {
		empty, valid, frag := t.fragmented(start)
		if !frag {
			return
		}
		t.slots[empty] = t.slots[valid]
		t.slots[valid] = Descriptor{}
		start = empty
	}
}

// resize adjusts capacity to n entries, clamped to the minimum. Shrinking
// defragments first, which guarantees the dropped tail is empty. Growing
// preserves every descriptor in place.
func (t *table) resize(n int) {
	if n < t.min {
		n = t.min
	}
	if n == len(t.slots) {
		return
	}
	if n < len(t.slots) {
		t.defrag()
	}
	next := make([]Descriptor, n)
	copy(next, t.slots)
	t.slots = next
}

// insert writes d into the first empty slot, growing the table by
// expandStep when it is full. A slot miss right after growth violates the
// table invariants and is reported as ErrTableCorrupt.
func (t *table) insert(d Descriptor, expandStep int) error {
	i := t.firstEmpty()
	if i < 0 {
		t.resize(len(t.slots) + expandStep)
		i = t.firstEmpty()
		if i < 0 {
			return ErrTableCorrupt
		}
	}
	t.slots[i] = d
	t.count++
	return nil
}

// remove clears the slot whose descriptor owns ref, then applies the shrink
// hysteresis: occupancy must sit above the minimum and a full shrink step
// below capacity before the table contracts.
//
// A ref with no matching entry reports ErrNotTracked and changes nothing -
// in particular the count is not decremented.
func (t *table) remove(ref Ref, shrinkStep int) error {
	idx := -1
	for i := range t.slots {
		if t.slots[i].Object == ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotTracked
	}
	t.slots[idx] = Descriptor{}
	t.count--

	if t.count > t.min && t.count+shrinkStep < len(t.slots) {
		t.resize(len(t.slots) - shrinkStep)
	}
	return nil
}

// totalSize sums the sizes of all valid descriptors.
func (t *table) totalSize() int {
	total := 0
	for i := range t.slots {
		if t.slots[i].Valid() {
			total += t.slots[i].Size
		}
	}
	return total
}
