package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocZeroed(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.AllocZeroed(16, 8)
	require.NoError(t, err)

	b := h.Bytes(p)
	require.Equal(t, 128, len(b))
	for i, v := range b {
		require.Zero(t, v, "byte %d not zeroed", i)
	}
}

func TestAllocZeroedScrubsReusedBlock(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Alloc(64)
	require.NoError(t, err)
	for i := range h.Bytes(p) {
		h.Bytes(p)[i] = 0xff
	}
	h.Free(p)

	// The reused block must come back clean.
	p2, err := h.AllocZeroed(8, 8)
	require.NoError(t, err)
	require.Equal(t, p, p2)
	for i, v := range h.Bytes(p2) {
		require.Zero(t, v, "byte %d carries stale data", i)
	}
}

func TestAllocZeroedOverflow(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	_, err := h.AllocZeroed(1<<33, 1<<33)
	require.ErrorIs(t, err, ErrSizeOverflow)

	_, err = h.AllocZeroed(^uint64(0), 2)
	require.ErrorIs(t, err, ErrSizeOverflow)

	// The guard must not reject large-but-representable products.
	_, err = h.AllocZeroed(1<<32, 1<<31)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocZeroedOutOfMemory(t *testing.T) {
	h := NewHeap(64)
	defer h.Close()

	_, err := h.AllocZeroed(100, 100)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestReallocNilPtrAllocates(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Realloc(NilPtr, 64)
	require.NoError(t, err)
	require.NotEqual(t, NilPtr, p)
	require.Equal(t, uint64(64), h.BlockSize(p))
}

func TestReallocZeroSizeFrees(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Alloc(64)
	require.NoError(t, err)

	np, err := h.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, NilPtr, np)
	require.Equal(t, 1, h.FreeBlocks())

	// The freed block is reusable.
	p2, err := h.Alloc(64)
	require.NoError(t, err)
	require.Equal(t, p, p2)
}

func TestReallocShrinkIsNoOp(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Alloc(128)
	require.NoError(t, err)
	b := h.Bytes(p)
	for i := range b {
		b[i] = byte(i)
	}

	np, err := h.Realloc(p, 32)
	require.NoError(t, err)
	require.Equal(t, p, np, "shrink must return the same pointer")
	require.Equal(t, uint64(128), h.BlockSize(np), "shrink must not change capacity")

	for i, v := range h.Bytes(np) {
		require.Equal(t, byte(i), v, "byte %d changed across no-op shrink", i)
	}
}

func TestReallocGrowPreservesContent(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Alloc(64)
	require.NoError(t, err)
	b := h.Bytes(p)
	for i := range b {
		b[i] = byte(i + 1)
	}

	np, err := h.Realloc(p, 256)
	require.NoError(t, err)
	require.NotEqual(t, p, np)
	require.Equal(t, uint64(256), h.BlockSize(np))

	nb := h.Bytes(np)
	for i := 0; i < 64; i++ {
		require.Equal(t, byte(i+1), nb[i], "byte %d lost in grow", i)
	}

	// The old block went to the free list.
	require.Equal(t, p, h.freeHead)
}

func TestReallocGrowOutOfMemoryKeepsOldBlock(t *testing.T) {
	h := NewHeap(128)
	defer h.Close()

	p, err := h.Alloc(64)
	require.NoError(t, err)
	h.Bytes(p)[0] = 0xab

	_, err = h.Realloc(p, 1<<20)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// p is still live and intact.
	require.Equal(t, byte(0xab), h.Bytes(p)[0])
	require.Equal(t, 0, h.FreeBlocks())
}

func TestReallocFreedPtrPanics(t *testing.T) {
	h := NewHeap(1 << 16)
	defer h.Close()

	p, err := h.Alloc(32)
	require.NoError(t, err)
	h.Free(p)

	require.PanicsWithValue(t, "malloc: use of freed pointer", func() {
		h.Realloc(p, 64)
	})
}
