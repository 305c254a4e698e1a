package malloc

import (
	"math/bits"
	"unsafe"

	"github.com/pkg/errors"
)

// Typed access to heap blocks. Payloads are 8-byte aligned, which covers
// every primitive and pointer-free struct with natural alignment; types
// requiring stricter alignment are not supported.

// New allocates a zeroed block sized for T and returns its Ptr.
func New[T any](h *Heap) (Ptr, error) {
	var zero T
	return h.AllocZeroed(1, uint64(unsafe.Sizeof(zero)))
}

// NewSlice allocates a block for n elements of T without zeroing it.
// Returns NilPtr if n <= 0.
func NewSlice[T any](h *Heap, n int) (Ptr, error) {
	if n <= 0 {
		return NilPtr, nil
	}
	var zero T
	hi, total := bits.Mul64(uint64(n), uint64(unsafe.Sizeof(zero)))
	if hi != 0 {
		return NilPtr, errors.Wrapf(ErrSizeOverflow, "alloc %d elements of %d bytes", n, unsafe.Sizeof(zero))
	}
	return h.Alloc(total)
}

// NewSliceZeroed allocates a block for n elements of T with zeroed memory.
// Returns NilPtr if n <= 0.
func NewSliceZeroed[T any](h *Heap, n int) (Ptr, error) {
	if n <= 0 {
		return NilPtr, nil
	}
	var zero T
	return h.AllocZeroed(uint64(n), uint64(unsafe.Sizeof(zero)))
}

// View reinterprets the live block at p as a *T. Panics if the block is
// smaller than T. The pointer is valid until the block is freed or the
// heap closed.
func View[T any](h *Heap, p Ptr) *T {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	if size == 0 {
		panic("malloc: view of zero-sized type")
	}
	b := h.Bytes(p)
	if uint64(len(b)) < size {
		panic("malloc: block too small for type")
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// ViewSlice reinterprets the live block at p as a []T of n elements.
// Panics if the block is smaller than n elements. Returns nil if n <= 0.
func ViewSlice[T any](h *Heap, p Ptr, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	if size == 0 {
		panic("malloc: view of zero-sized type")
	}
	hi, total := bits.Mul64(uint64(n), size)
	b := h.Bytes(p)
	if hi != 0 || uint64(len(b)) < total {
		panic("malloc: block too small for slice")
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
