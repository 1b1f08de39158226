// Package track implements a diagnostic allocation tracker for
// memory-constrained environments.
//
// # Overview
//
// Every allocation made through a Tracker is labeled with a fixed 4-byte tag,
// its size, and an optional monotonic creation timestamp. Descriptors live in
// a growable table that an operator can snapshot to find leaks, measure
// usage, and attribute memory to subsystems.
//
// The table grows in fixed expand-step increments when it fills and shrinks
// in fixed shrink-step decrements once occupancy falls far enough below
// capacity. The shrink margin must exceed the expand step, so an
// allocate/free cycle straddling a capacity boundary cannot oscillate the
// table between sizes. Shrinking compacts the table first, so the tail being
// dropped is always empty.
//
// # Usage Example
//
//	backing, err := arena.New(1 << 20)
//	if err != nil {
//	    return err
//	}
//	tr, err := track.New(backing, nil)
//	if err != nil {
//	    return err
//	}
//	tr.Init()
//
//	ref, buf, err := track.Alloc[uint64](tr, track.MakeTag("hdrs"))
//	if err != nil {
//	    return err
//	}
//	// ... use buf ...
//	err = tr.Free(ref)
//
// # Concurrency
//
// Any number of goroutines may call any Tracker method after Init. Table
// state is serialized by a bounded-wait lock; acquisition that exceeds the
// configured wait reports ErrLockTimeout rather than blocking indefinitely.
// Raw memory is requested from the underlying Allocator outside the lock, so
// concurrent allocations only contend on bookkeeping.
//
// # Failure policy
//
// Resource and invariant failures (allocator exhaustion, lock timeout, a
// missing slot right after growth) are returned as errors. Setting
// Config.Strict converts them to panics for fail-fast deployments. Freeing a
// ref the tracker does not know about reports ErrNotTracked and leaves both
// the bookkeeping and the underlying memory untouched.
//
// # Related Packages
//
//   - github.com/joshuapare/memtag/track/printer: formats table snapshots
//   - github.com/joshuapare/memtag/internal/arena: the default backing allocator
package track
