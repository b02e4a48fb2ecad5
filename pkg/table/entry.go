// ABOUTME: Fixed-layout {timestamp, value} entry encoding over a raw stride
// ABOUTME: values are copied as raw bytes, so T must be a flat, pointer-free type

package table

import (
	"encoding/binary"
	"unsafe"
)

const timestampSize = 8

// elemSize returns sizeof(T) the way a C++ template parameter would
// see it. Table is built for plain numeric structs (sensor readings,
// price ticks, coordinates) the same way original_source's Table<T>
// assumed a trivially-copyable T; anything with pointers, slices, or
// interfaces inside would alias memory instead of copying it and is
// not supported.
func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// strideFor returns the on-disk element size for a table of T: an
// 8-byte timestamp followed by T's raw bytes.
func strideFor[T any]() int {
	return timestampSize + elemSize[T]()
}

// putEntry writes ts and the raw bytes of val into buf, which must be
// exactly strideFor[T]() bytes.
func putEntry[T any](buf []byte, ts uint64, val T) {
	binary.LittleEndian.PutUint64(buf[0:timestampSize], ts)
	size := elemSize[T]()
	src := unsafe.Slice((*byte)(unsafe.Pointer(&val)), size)
	copy(buf[timestampSize:timestampSize+size], src)
}

// getEntry decodes a {timestamp, value} pair out of buf.
func getEntry[T any](buf []byte) (uint64, T) {
	ts := binary.LittleEndian.Uint64(buf[0:timestampSize])
	var val T
	size := elemSize[T]()
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&val)), size)
	copy(dst, buf[timestampSize:timestampSize+size])
	return ts, val
}

// getTimestamp reads just the timestamp field, avoiding the value copy
// when Locate and Reduce only need to compare timestamps.
func getTimestamp(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf[0:timestampSize])
}
