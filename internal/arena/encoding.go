package arena

import "encoding/binary"

// putI32 writes the signed block header at off in little-endian format.
func putI32(b []byte, off int32, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// getI32 reads the signed block header at off in little-endian format.
func getI32(b []byte, off int32) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}
