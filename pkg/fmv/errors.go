package fmv

import "errors"

var (
	// ErrUnsupportedHost is returned when the running page size or
	// architecture doesn't match what a table file's layout assumes.
	ErrUnsupportedHost = errors.New("fmv: unsupported host (need 4096-byte pages on amd64/arm64)")

	// ErrShortFile is returned when a file is too short to hold the header.
	ErrShortFile = errors.New("fmv: file shorter than header")

	// ErrBadMagic is returned when the header's magic tag doesn't match.
	ErrBadMagic = errors.New("fmv: bad magic, file is not a valid fmapvec table")

	// ErrMisaligned is returned when the data region isn't a whole number
	// of strides.
	ErrMisaligned = errors.New("fmv: data region is not a multiple of stride")

	// ErrSizeOverflow is returned when the recorded size claims more
	// elements than the data region can hold.
	ErrSizeOverflow = errors.New("fmv: recorded size exceeds data region")

	// ErrBadStride is returned for a non-positive or misaligned stride.
	ErrBadStride = errors.New("fmv: stride must be a positive multiple of 8")
)
