package track

import (
	"fmt"
	"unsafe"
)

// Alloc allocates space for one value of type T and tracks it under tag.
// It is a thin wrapper over AllocBytes with size = sizeof(T).
func Alloc[T any](t *Tracker, tag Tag) (Ref, []byte, error) {
	var zero T
	return t.AllocBytes(int(unsafe.Sizeof(zero)), tag)
}

// AllocArray allocates space for count contiguous values of type T and
// tracks the block under tag.
func AllocArray[T any](t *Tracker, count int, tag Tag) (Ref, []byte, error) {
	if count <= 0 {
		return 0, nil, fmt.Errorf("%w: count %d", ErrBadSize, count)
	}
	var zero T
	return t.AllocBytes(int(unsafe.Sizeof(zero))*count, tag)
}
