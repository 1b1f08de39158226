package track

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Tracker owns the allocation table, its lock, and the collaborators used to
// stamp descriptors. Construct one with New, call Init once before use, and
// share it freely between goroutines.
type Tracker struct {
	cfg   Config
	alloc Allocator
	clock Clock

	initOnce sync.Once
	ready    atomic.Bool

	mu  *timedMutex
	tab *table
}

// New validates cfg and returns a tracker bound to the given allocator.
// Passing nil cfg selects DefaultConfig. The tracker is not usable until
// Init has been called.
func New(alloc Allocator, cfg *Config) (*Tracker, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, fmt.Errorf("%w: nil allocator", ErrBadConfig)
	}
	clock := c.Clock
	if clock == nil {
		clock = newMonotonicClock()
	}
	return &Tracker{cfg: c, alloc: alloc, clock: clock}, nil
}

// Init constructs the lock and the initial table. It is idempotent and safe
// against concurrent first calls; every call after the first is a no-op.
func (t *Tracker) Init() {
	t.initOnce.Do(func() {
		t.mu = newTimedMutex()
		t.tab = newTable(t.cfg.InitialTableSize, t.cfg.MinTableSize)
		t.ready.Store(true)
	})
}

// fail applies the strict-mode policy to resource and invariant failures.
func (t *Tracker) fail(err error) error {
	if t.cfg.Strict {
		panic(err)
	}
	return err
}

// acquire takes the table lock with the configured bounded wait.
func (t *Tracker) acquire() error {
	if !t.ready.Load() {
		return t.fail(ErrNotInitialized)
	}
	if err := t.mu.lock(t.cfg.LockWait); err != nil {
		return t.fail(err)
	}
	return nil
}

// AllocBytes allocates size bytes from the underlying allocator and tracks
// the block under tag. It returns the block's ref and payload.
//
// The raw allocation happens outside the table lock: the allocator is
// independently thread-safe and this keeps the critical section to the
// bookkeeping alone.
func (t *Tracker) AllocBytes(size int, tag Tag) (Ref, []byte, error) {
	if size <= 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if !t.ready.Load() {
		return 0, nil, t.fail(ErrNotInitialized)
	}

	ref, err := t.alloc.Alloc(size)
	if err != nil {
		return 0, nil, t.fail(fmt.Errorf("track: allocate %d bytes: %w", size, err))
	}

	d := Descriptor{Object: ref, Size: size, Tag: tag}
	if t.cfg.TrackTime {
		d.Time = t.clock.Millis()
	}

	if err := t.insert(d); err != nil {
		// Bookkeeping failed: hand the block straight back so it cannot leak.
		_ = t.alloc.Free(ref)
		return 0, nil, err
	}
	return ref, t.alloc.Bytes(ref), nil
}

// insert adds d to the table under the lock.
func (t *Tracker) insert(d Descriptor) error {
	if err := t.acquire(); err != nil {
		return err
	}
	defer t.mu.unlock()
	if err := t.tab.insert(d, t.cfg.ExpandStep); err != nil {
		return t.fail(err)
	}
	return nil
}

// Free removes the tracked block at ref and releases its memory to the
// underlying allocator.
//
// A ref with no matching table entry reports ErrNotTracked: the count stays
// untouched and no memory is released, so a double free can never corrupt
// the bookkeeping or hit the allocator twice.
func (t *Tracker) Free(ref Ref) error {
	if ref == 0 {
		return fmt.Errorf("%w: zero ref", ErrNotTracked)
	}
	if err := t.acquire(); err != nil {
		return err
	}
	err := t.tab.remove(ref, t.cfg.ShrinkStep)
	t.mu.unlock()
	if err != nil {
		return err
	}

	if err := t.alloc.Free(ref); err != nil {
		return t.fail(fmt.Errorf("track: release ref %#x: %w", ref, err))
	}
	return nil
}

// Count reports the number of live tracked allocations.
func (t *Tracker) Count() (int, error) {
	if err := t.acquire(); err != nil {
		return 0, err
	}
	defer t.mu.unlock()
	return t.tab.count, nil
}

// TotalSize reports the byte total across all live tracked allocations.
func (t *Tracker) TotalSize() (int, error) {
	if err := t.acquire(); err != nil {
		return 0, err
	}
	defer t.mu.unlock()
	return t.tab.totalSize(), nil
}

// Capacity reports the current table capacity in entries.
func (t *Tracker) Capacity() (int, error) {
	if err := t.acquire(); err != nil {
		return 0, err
	}
	defer t.mu.unlock()
	return t.tab.capacity(), nil
}

// Snapshot copies the table and counters under the lock and returns the
// copy. Slow consumers (formatting, aggregation, display) work on the
// snapshot so they never extend the critical section.
func (t *Tracker) Snapshot() (Snapshot, error) {
	if err := t.acquire(); err != nil {
		return Snapshot{}, err
	}
	defer t.mu.unlock()

	slots := make([]Descriptor, len(t.tab.slots))
	copy(slots, t.tab.slots)
	return Snapshot{
		Slots:     slots,
		Count:     t.tab.count,
		TotalSize: t.tab.totalSize(),
		TrackTime: t.cfg.TrackTime,
	}, nil
}
