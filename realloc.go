package malloc

import (
	"math/bits"

	"github.com/pkg/errors"
)

// AllocZeroed allocates a block of count*size bytes and zero-fills it.
// The product is overflow-checked: a count and size whose product does not
// fit in a uint64 yield ErrSizeOverflow rather than a silently truncated
// allocation.
func (h *Heap) AllocZeroed(count, size uint64) (Ptr, error) {
	hi, total := bits.Mul64(count, size)
	if hi != 0 {
		return NilPtr, errors.Wrapf(ErrSizeOverflow, "alloc %d*%d bytes", count, size)
	}
	p, err := h.Alloc(total)
	if err != nil {
		return NilPtr, err
	}
	clear(h.buf[p : uint64(p)+total])
	return p, nil
}

// Realloc resizes the block at p to at least size bytes.
//
//   - Realloc(NilPtr, size) behaves as Alloc(size).
//   - Realloc(p, 0) frees p and returns NilPtr.
//   - size <= BlockSize(p): returns p unchanged. The block keeps its
//     original capacity; nothing shrinks and no bytes move.
//   - size > BlockSize(p): allocates a new block, copies the old block's
//     capacity worth of bytes, frees the old block, and returns the new
//     Ptr. Bytes past the old capacity are not zeroed.
//
// On ErrOutOfMemory the old block is left live and untouched.
func (h *Heap) Realloc(p Ptr, size uint64) (Ptr, error) {
	if p == NilPtr {
		return h.Alloc(size)
	}
	if size == 0 {
		h.Free(p)
		return NilPtr, nil
	}
	h.checkLive(p)
	old := h.blockSize(p)
	if size <= old {
		return p, nil
	}
	np, err := h.Alloc(size)
	if err != nil {
		return NilPtr, err
	}
	copy(h.buf[np:uint64(np)+old], h.buf[p:uint64(p)+old])
	h.Free(p)
	return np, nil
}
