package arena

import "errors"

var (
	// ErrNoSpace indicates the region cannot satisfy the allocation.
	ErrNoSpace = errors.New("arena: out of space")

	// ErrBadRef indicates a ref that does not point at a block in the region.
	ErrBadRef = errors.New("arena: bad block reference")

	// ErrNotAllocated indicates a free of a block that is not live (double free).
	ErrNotAllocated = errors.New("arena: block is not allocated")

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("arena: allocation size must be positive")

	// ErrBadCapacity indicates an unusable region capacity.
	ErrBadCapacity = errors.New("arena: invalid capacity")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
