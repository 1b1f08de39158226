package track

import (
	"fmt"
	"time"
)

const (
	// DefaultMinTableSize is the smallest capacity the table may reach.
	DefaultMinTableSize = 32

	// DefaultInitialTableSize is the capacity Init builds the table with.
	DefaultInitialTableSize = 64

	// DefaultExpandStep is how many entries are added when the table fills.
	DefaultExpandStep = 32

	// DefaultShrinkStep is both the shrink decrement and the occupancy margin
	// that must open up below capacity before a shrink happens. It exceeds
	// the expand step so capacity cannot oscillate across one boundary.
	DefaultShrinkStep = 64

	// DefaultLockWait bounds table lock acquisition. It really should not
	// take this long to acquire the lock.
	DefaultLockWait = 5 * time.Millisecond
)

// Config controls a Tracker. The zero value is not usable; start from
// DefaultConfig and override fields as needed.
type Config struct {
	// MinTableSize is the capacity floor, in entries.
	MinTableSize int

	// InitialTableSize is the starting capacity, in entries.
	InitialTableSize int

	// ExpandStep is the growth increment applied when the table is full.
	ExpandStep int

	// ShrinkStep is the shrink decrement and hysteresis margin. Must exceed
	// ExpandStep.
	ShrinkStep int

	// LockWait bounds how long any operation waits for the table lock before
	// reporting ErrLockTimeout.
	LockWait time.Duration

	// TrackTime stamps each descriptor with a monotonic creation time.
	TrackTime bool

	// Strict converts resource and invariant failures (allocator exhaustion,
	// lock timeout, post-growth slot miss) into panics instead of errors.
	Strict bool

	// Clock overrides the timestamp source. Nil selects a monotonic clock
	// anchored at tracker construction.
	Clock Clock
}

// DefaultConfig returns the standard tracker configuration.
func DefaultConfig() Config {
	return Config{
		MinTableSize:     DefaultMinTableSize,
		InitialTableSize: DefaultInitialTableSize,
		ExpandStep:       DefaultExpandStep,
		ShrinkStep:       DefaultShrinkStep,
		LockWait:         DefaultLockWait,
		TrackTime:        true,
	}
}

// validate reports the first problem with the configuration.
func (c Config) validate() error {
	if c.MinTableSize < 1 {
		return fmt.Errorf("%w: minimum table size %d, want >= 1", ErrBadConfig, c.MinTableSize)
	}
	if c.InitialTableSize < c.MinTableSize {
		return fmt.Errorf("%w: initial table size %d below minimum %d",
			ErrBadConfig, c.InitialTableSize, c.MinTableSize)
	}
	if c.ExpandStep < 1 {
		return fmt.Errorf("%w: expand step %d, want >= 1", ErrBadConfig, c.ExpandStep)
	}
	if c.ShrinkStep <= c.ExpandStep {
		return fmt.Errorf("%w: shrink step %d must exceed expand step %d for hysteresis",
			ErrBadConfig, c.ShrinkStep, c.ExpandStep)
	}
	if c.LockWait <= 0 {
		return fmt.Errorf("%w: lock wait %v, want > 0", ErrBadConfig, c.LockWait)
	}
	return nil
}
