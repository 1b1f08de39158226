//go:build unix

package arena

import "golang.org/x/sys/unix"

// mapRegion reserves an anonymous, private mapping of the given size.
// The returned cleanup unmaps it.
func mapRegion(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(
		-1,
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
