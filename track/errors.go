package track

import "errors"

var (
	// ErrBadConfig indicates an invalid tracker configuration.
	ErrBadConfig = errors.New("track: invalid configuration")

	// ErrNotInitialized indicates a tracker operation before Init.
	ErrNotInitialized = errors.New("track: tracker not initialized")

	// ErrLockTimeout indicates the table lock could not be acquired within
	// the configured wait.
	ErrLockTimeout = errors.New("track: table lock acquisition timed out")

	// ErrTableCorrupt indicates no empty slot was found immediately after
	// growing the table, which violates the table invariants.
	ErrTableCorrupt = errors.New("track: no empty slot after growth")

	// ErrNotTracked indicates a free of a ref with no matching table entry:
	// either a double free or a pointer the tracker never handed out.
	ErrNotTracked = errors.New("track: ref not tracked")

	// ErrBadSize indicates a non-positive allocation size or element count.
	ErrBadSize = errors.New("track: allocation size must be positive")
)
