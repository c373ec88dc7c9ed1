package util

import "encoding/binary"

// DecodeUint64 reads a little-endian uint64 from the first 8 bytes of b.
// Shorter input decodes to 0.
func DecodeUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// EncodeUint64 returns x as 8 little-endian bytes.
func EncodeUint64(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}
