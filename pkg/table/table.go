// ABOUTME: Table is a monotonic-timestamp append log over a file-mapped vector
// ABOUTME: it adds Locate (timestamp binary search) and Reduce (thinning scan)

package table

import (
	"fmt"

	"github.com/nainya/chronofmv/pkg/fmv"
)

// Table is an append-only sequence of {timestamp, T} entries backed by
// an FMV. Entries must be appended in strictly increasing timestamp
// order; Append silently drops anything that isn't — including a
// repeat of the last timestamp — rather than returning an error, since
// an out-of-order or duplicate sample from a single writer is expected
// to happen occasionally and isn't exceptional.
//
// Like FMV, a Table is meant for a single writer and is not safe for
// concurrent use without external synchronization.
type Table[T any] struct {
	fmv   *fmv.FMV
	hooks Hooks
}

// Open maps path as a table of T. The file is created if it doesn't
// exist. Reopening a file created with a different T fails when the new
// stride (8 + sizeof(T)) does not divide the file's data region or
// cannot hold its recorded count; a stride that passes both checks is
// accepted, since the stride is not recorded in the file.
func Open[T any](path string, opts ...Option) (*Table[T], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	v, err := fmv.Open(path, strideFor[T](), cfg.fmvOpts...)
	if err != nil {
		return nil, err
	}
	return &Table[T]{fmv: v, hooks: cfg.hooks}, nil
}

// Size returns the number of entries in the table.
func (t *Table[T]) Size() uint64 {
	return t.fmv.Size()
}

// Get returns the timestamp and value stored at index i. Like FMV.Get,
// it does not bounds-check i against Size.
func (t *Table[T]) Get(i uint64) (uint64, T) {
	return getEntry[T](t.fmv.Get(i))
}

func (t *Table[T]) timestampAt(i uint64) uint64 {
	return getTimestamp(t.fmv.Get(i))
}

// Append adds (ts, val) as the newest entry, provided ts is strictly
// greater than the table's current latest timestamp. A non-monotonic
// ts — equal to or less than the last entry's — is rejected silently:
// Append returns nil and the entry is not written, but the rejection
// is observable through the table's reject hook.
func (t *Table[T]) Append(ts uint64, val T) error {
	size := t.Size()
	if size > 0 {
		if last := t.timestampAt(size - 1); ts <= last {
			t.hooks.reject()
			return nil
		}
	}
	buf := make([]byte, strideFor[T]())
	putEntry(buf, ts, val)
	if err := t.fmv.Append(buf); err != nil {
		return fmt.Errorf("table: append: %w", err)
	}
	return nil
}

// Locate returns the smallest index i such that the entry at i has a
// timestamp >= query, clamped to Size()-1 when query is past the last
// entry, and 0 on an empty table. It's a standard binary search, except that at each step it
// touches the memory for both candidate next midpoints before running
// the comparison that picks one — issuing the next cache line's fetch
// while the current comparison is still in flight, since a branch
// misprediction or a cold cache line costs far more than the touch.
func (t *Table[T]) Locate(query uint64) uint64 {
	lo, hi := uint64(0), t.Size()
	steps := 0
	for lo < hi {
		mid := lo + (hi-lo)/2

		if mid > lo {
			leftNext := lo + (mid-lo)/2
			_ = t.fmv.Get(leftNext)[0]
		}
		if hi > mid+1 {
			rightNext := mid + 1 + (hi-mid-1)/2
			_ = t.fmv.Get(rightNext)[0]
		}

		steps++
		if t.timestampAt(mid) < query {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	t.hooks.locate(steps)
	if size := t.Size(); size > 0 && lo == size {
		lo = size - 1
	}
	return lo
}

// Reduce scans entries [lo, hi) and returns the indices of a thinned
// subsequence: the first entry, then every later entry whose timestamp
// exceeds the last emitted entry's timestamp by strictly more than dt.
// It's a single forward pass, not a sample of dt-spaced buckets, so
// bursts of closely-spaced entries collapse to one point per dt window
// while sparse stretches pass every entry through untouched.
func (t *Table[T]) Reduce(lo, hi uint64, dt uint64) []uint64 {
	if hi > t.Size() {
		hi = t.Size()
	}
	if lo >= hi {
		return nil
	}
	indices := make([]uint64, 0, hi-lo)
	indices = append(indices, lo)
	threshold := t.timestampAt(lo)
	for i := lo + 1; i < hi; i++ {
		ts := t.timestampAt(i)
		if ts-threshold > dt {
			indices = append(indices, i)
			threshold = ts
		}
	}
	t.hooks.reduce(int(hi-lo), len(indices))
	return indices
}

// ReduceWindow is Reduce expressed over a timestamp range instead of
// an index range: start is Locate(tStart), and end is one past
// Locate(tEnd) so the entry at tEnd itself, if any, is included,
// clamped to Size(). It's the composition a caller would otherwise
// have to write by hand around Locate and Reduce.
func (t *Table[T]) ReduceWindow(tStart, tEnd, dt uint64) []uint64 {
	lo := t.Locate(tStart)
	hi := t.Locate(tEnd) + 1
	if size := t.Size(); hi > size {
		hi = size
	}
	return t.Reduce(lo, hi, dt)
}

// Sync asks the OS to start writing dirty pages back to disk without
// waiting for completion.
func (t *Table[T]) Sync() error {
	return t.fmv.Sync()
}

// Close unmaps the underlying file and closes its descriptor.
func (t *Table[T]) Close() error {
	return t.fmv.Close()
}

// Stride returns the on-disk element size: 8 bytes of timestamp plus
// sizeof(T).
func (t *Table[T]) Stride() int {
	return t.fmv.Stride()
}
