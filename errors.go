package malloc

import "github.com/pkg/errors"

var (
	// ErrOutOfMemory is returned when a request cannot be satisfied from
	// the free list and the remaining virgin space is too small. The heap
	// is unchanged; smaller requests may still succeed.
	ErrOutOfMemory = errors.New("malloc: out of memory")

	// ErrSizeOverflow is returned when a computed allocation size does not
	// fit in a uint64 (AllocZeroed's count*size, NewSlice's n*sizeof).
	ErrSizeOverflow = errors.New("malloc: allocation size overflow")
)
