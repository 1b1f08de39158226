package track

import "time"

// timedMutex is a mutual-exclusion lock with bounded-wait acquisition. A
// full buffered channel holds the lock; an empty one means it is free.
//
// The tracker acquires it exactly once per public operation. Internal table
// helpers never lock on their own - they document the lock-held requirement
// instead, so no re-entrant acquisition exists anywhere.
type timedMutex struct {
	ch chan struct{}
}

func newTimedMutex() *timedMutex {
	return &timedMutex{ch: make(chan struct{}, 1)}
}

// lock acquires the mutex, waiting at most wait. It reports ErrLockTimeout
// when the wait elapses without acquisition.
func (m *timedMutex) lock(wait time.Duration) error {
	// Uncontended fast path: no timer allocation.
	select {
	case m.ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case m.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrLockTimeout
	}
}

// unlock releases the mutex. Unlocking a free mutex is a programming error.
func (m *timedMutex) unlock() {
	select {
	case <-m.ch:
	default:
		panic("track: unlock of unlocked table mutex")
	}
}
