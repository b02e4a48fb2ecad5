// ABOUTME: FMV is a growable, disk-backed array mapped once and never remapped
// ABOUTME: growth extends the backing file in place under a fixed virtual reservation

package fmv

import (
	"encoding/binary"
	"fmt"
)

// initialElements is how many strides the data region is preallocated
// to hold on first creation, before any doubling growth kicks in.
const initialElements = 1024

// FMV is a file-mapped vector of fixed-stride elements. The zero value
// is not usable; construct one with Open.
//
// An FMV is not safe for concurrent use from multiple goroutines
// without external synchronization, and is meant for a single writer
// process per file, matching the single-writer contract the rest of
// this module assumes.
type FMV struct {
	path        string
	stride      int
	fd          int
	region      []byte
	reservation uint64
	capacity    uint64 // elements the data region currently has room for
	hooks       Hooks
}

// Open maps path as a file-mapped vector of elements stride bytes wide.
// The file is created if it doesn't exist. Re-opening an existing file
// with a different stride than it was created with returns
// ErrMisaligned when the new stride does not divide the data region, or
// ErrSizeOverflow when the recorded count no longer fits; a stride that
// passes both checks is accepted, since the stride is not recorded in
// the file.
func Open(path string, stride int, opts ...Option) (*FMV, error) {
	if stride <= 0 || stride%8 != 0 {
		return nil, ErrBadStride
	}
	if err := checkHost(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reservation < uint64(HeaderSize+stride) {
		return nil, fmt.Errorf("fmv: reservation %d too small for stride %d", cfg.reservation, stride)
	}

	fd, created, err := openFile(path)
	if err != nil {
		return nil, err
	}

	v := &FMV{
		path:        path,
		stride:      stride,
		fd:          fd,
		reservation: cfg.reservation,
		hooks:       cfg.hooks,
	}

	if created {
		if err := v.initEmpty(); err != nil {
			closeFd(fd)
			return nil, err
		}
	} else {
		if err := v.validateExisting(); err != nil {
			closeFd(fd)
			return nil, err
		}
	}

	region, err := mmapRegion(fd, v.reservation)
	if err != nil {
		closeFd(fd)
		return nil, err
	}
	v.region = region

	return v, nil
}

func (v *FMV) initEmpty() error {
	header := newHeader(0)
	if err := pwriteAt(v.fd, header, 0); err != nil {
		return err
	}
	dataBytes := int64(initialElements * v.stride)
	if err := growFile(v.fd, int64(HeaderSize)+dataBytes); err != nil {
		return err
	}
	v.capacity = initialElements
	return nil
}

func (v *FMV) validateExisting() error {
	size, err := fileSize(v.fd)
	if err != nil {
		return err
	}
	if size < HeaderSize {
		return ErrShortFile
	}

	header := make([]byte, HeaderSize)
	if n, err := readAt(v.fd, header, 0); err != nil || n != HeaderSize {
		if err != nil {
			return fmt.Errorf("fmv: read header: %w", err)
		}
		return ErrShortFile
	}
	if readMagic(header) != magic {
		return ErrBadMagic
	}

	dataBytes := size - HeaderSize
	if dataBytes%int64(v.stride) != 0 {
		return ErrMisaligned
	}
	capacity := uint64(dataBytes) / uint64(v.stride)
	count := readSize(header)
	if count > capacity {
		return ErrSizeOverflow
	}
	v.capacity = capacity
	return nil
}

// Size returns the number of live elements.
func (v *FMV) Size() uint64 {
	return binary.LittleEndian.Uint64(v.region[8:16])
}

func (v *FMV) setSize(n uint64) {
	binary.LittleEndian.PutUint64(v.region[8:16], n)
}

// Get returns the raw bytes of element i as a slice into the mapped
// region. The slice aliases the FMV's memory and stays valid across
// growth, since the mapping never moves, until Close. Get does not
// bounds-check i against Size; reading past the live count but below
// capacity observes whatever bytes are currently on the preallocated
// pages, which is zero for never-written elements.
func (v *FMV) Get(i uint64) []byte {
	off := uint64(HeaderSize) + i*uint64(v.stride)
	return v.region[off : off+uint64(v.stride)]
}

// Append writes elem, which must be exactly stride bytes, as the next
// element and increments Size. It grows the backing file first if the
// current capacity is exhausted; the mapping itself never changes size
// or address.
func (v *FMV) Append(elem []byte) error {
	if len(elem) != v.stride {
		return fmt.Errorf("fmv: element is %d bytes, want %d", len(elem), v.stride)
	}
	size := v.Size()
	if size >= v.capacity {
		if err := v.grow(); err != nil {
			return err
		}
	}
	dst := v.Get(size)
	copy(dst, elem)
	v.setSize(size + 1)
	v.hooks.append(true)
	return nil
}

// grow doubles the data region's element capacity. Doubling amortizes
// the fallocate cost across appends the same way a slice's backing
// array doubles; the ceiling is the virtual reservation, not a second
// mmap call.
func (v *FMV) grow() error {
	old := v.capacity
	next := old * 2
	if next == 0 {
		next = 1
	}
	newDataBytes := next * uint64(v.stride)
	if uint64(HeaderSize)+newDataBytes > v.reservation {
		return fmt.Errorf("fmv: table would exceed %d byte reservation", v.reservation)
	}
	if err := growFile(v.fd, int64(HeaderSize+newDataBytes)); err != nil {
		return err
	}
	v.capacity = next
	v.hooks.growth(old, next)
	return nil
}

// Sync asks the OS to start writing dirty mapped pages back to disk
// without waiting for completion. It covers only the bytes in use
// (header plus live elements), not the full sparse reservation.
func (v *FMV) Sync() error {
	size := v.Size()
	used := uint64(HeaderSize) + size*uint64(v.stride)
	if used > uint64(len(v.region)) {
		used = uint64(len(v.region))
	}
	if err := msyncRegion(v.region[:used]); err != nil {
		return err
	}
	v.hooks.sync()
	return nil
}

// Close unmaps the region and closes the underlying file descriptor.
// It does not sync; call Sync first if that's needed.
func (v *FMV) Close() error {
	if err := munmapRegion(v.region); err != nil {
		return err
	}
	return closeFd(v.fd)
}

// Path returns the file backing this vector.
func (v *FMV) Path() string { return v.path }

// Stride returns the fixed element size in bytes.
func (v *FMV) Stride() int { return v.stride }
