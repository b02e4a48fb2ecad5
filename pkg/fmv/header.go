// ABOUTME: On-disk sentinel layout for the file-mapped vector
// ABOUTME: One page holds the magic tag and the live element count

package fmv

import "encoding/binary"

const (
	// HeaderSize is the sentinel's footprint: exactly one 4 KiB page.
	// Element #0 starts immediately after it.
	HeaderSize = 4096

	sizeOffset = 8
)

// magic is the ASCII tag "FMAPVEC\0" read as a little-endian u64.
var magic = binary.LittleEndian.Uint64([]byte("FMAPVEC\x00"))

// readMagic returns the magic field out of a raw header-sized buffer.
func readMagic(header []byte) uint64 {
	return binary.LittleEndian.Uint64(header[0:8])
}

// readSize returns the live element count out of a raw header-sized buffer.
func readSize(header []byte) uint64 {
	return binary.LittleEndian.Uint64(header[sizeOffset : sizeOffset+8])
}

// newHeader returns a zeroed, page-sized header with the magic and size set.
func newHeader(size uint64) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], magic)
	binary.LittleEndian.PutUint64(buf[sizeOffset:sizeOffset+8], size)
	return buf
}
