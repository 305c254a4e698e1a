// Package malloc implements a first-fit free-list allocator over one large
// arena mapped once from the operating system. Typical usage: create a Heap,
// Alloc and Free blocks through Ptr handles, Close when the heap is no
// longer needed.
package malloc

import (
	"encoding/binary"
	"log/slog"

	"github.com/pkg/errors"
)

// DefaultArenaSize is the arena size used when NewHeap is given a
// non-positive size (2 GiB).
const DefaultArenaSize = 1 << 31

// Ptr addresses a block's payload as an offset into the heap's arena.
// NilPtr is the null pointer; the heap never returns it for a successful
// allocation because every payload sits past a block header.
type Ptr uint64

// NilPtr is the zero Ptr. Realloc(p, 0) returns it; Alloc accepts nothing
// that produces it.
const NilPtr Ptr = 0

// Block header layout, stored in the arena immediately before each payload.
// Three little-endian words: payload size, live/free state, free-list link.
// The link holds the Ptr of the next free block and is meaningful only
// while the block is on the free list.
const (
	headerSize = 24
	hdrSize    = 0
	hdrState   = 8
	hdrNext    = 16

	payloadAlign = 8
)

const (
	stateLive uint64 = iota
	stateFree
)

// Heap is a fixed-arena allocator. Not goroutine-safe; use SafeHeap for
// concurrent access.
type Heap struct {
	arenaSize uint64
	buf       []byte // nil until the first allocation reserves the arena
	cursor    uint64 // start of virgin space; only ever advances
	freeHead  Ptr
	closed    bool
}

// NewHeap creates a Heap backed by an arena of arenaSize bytes. The arena
// is not mapped until the first allocation. If arenaSize <= 0,
// DefaultArenaSize is used.
func NewHeap(arenaSize int64) *Heap {
	if arenaSize <= 0 {
		arenaSize = DefaultArenaSize
	}
	return &Heap{arenaSize: uint64(arenaSize)}
}

// ensureReserved maps the arena on first use. Later calls are no-ops.
// Reservation failure is unrecoverable (there is no secondary memory
// source), so it panics rather than returning an error.
func (h *Heap) ensureReserved() {
	if h.closed {
		panic("malloc: use after Close()")
	}
	if h.buf != nil {
		return
	}
	buf, err := reserve(h.arenaSize)
	if err != nil {
		panic(errors.Wrapf(err, "malloc: reserving %d byte arena", h.arenaSize))
	}
	h.buf = buf
	slog.Debug("malloc: arena reserved", "bytes", len(buf))
}

// Alloc returns a Ptr to at least size writable bytes, or ErrOutOfMemory.
//
// The first freed block whose capacity covers size is reused whole; blocks
// are never split, so a reused block may be larger than requested (see
// BlockSize). With no fitting free block, the block is carved from virgin
// space. Alloc(0) succeeds and returns a distinct Ptr with zero usable
// bytes.
func (h *Heap) Alloc(size uint64) (Ptr, error) {
	h.ensureReserved()

	// First fit: walk the free list head to tail, unlink the first block
	// big enough.
	prev := NilPtr
	for p := h.freeHead; p != NilPtr; p = h.next(p) {
		if h.blockSize(p) < size {
			prev = p
			continue
		}
		if prev == NilPtr {
			h.freeHead = h.next(p)
		} else {
			h.setNext(prev, h.next(p))
		}
		h.setState(p, stateLive)
		h.setNext(p, NilPtr)
		return p, nil
	}

	// Carve from virgin space. The padded footprint must stay inside the
	// arena; size is validated before alignUp so the rounding cannot wrap.
	avail := uint64(len(h.buf)) - h.cursor
	if avail < headerSize || size > avail-headerSize {
		return NilPtr, errors.Wrapf(ErrOutOfMemory, "alloc %d bytes, %d virgin bytes left", size, avail)
	}
	footprint := headerSize + alignUp(size)
	if footprint > avail {
		return NilPtr, errors.Wrapf(ErrOutOfMemory, "alloc %d bytes, %d virgin bytes left", size, avail)
	}

	head := h.cursor
	p := Ptr(head + headerSize)
	binary.LittleEndian.PutUint64(h.buf[head+hdrSize:], size)
	binary.LittleEndian.PutUint64(h.buf[head+hdrState:], stateLive)
	binary.LittleEndian.PutUint64(h.buf[head+hdrNext:], uint64(NilPtr))
	h.cursor = head + footprint
	return p, nil
}

// Free releases the block at p, pushing it onto the free-list head. The
// block's capacity becomes available to later allocations; its bytes are
// not cleared.
//
// p must be a live Ptr returned by this heap. Freeing NilPtr is a no-op.
// Detectable misuse (a Ptr outside the carved arena, a misaligned Ptr, a
// double free) panics; freeing a stale-but-plausible Ptr is not detected
// and corrupts the free list.
func (h *Heap) Free(p Ptr) {
	if p == NilPtr {
		return
	}
	h.checkPtr(p)
	if h.state(p) == stateFree {
		panic("malloc: double free")
	}
	h.setState(p, stateFree)
	h.setNext(p, h.freeHead)
	h.freeHead = p
}

// Bytes returns the payload of the block at p as a slice over the arena.
// Its length is the block's full capacity (BlockSize), which can exceed
// the size originally requested when the block was reused first-fit. The
// slice is capped so appends cannot spill into neighboring blocks.
// Bytes(NilPtr) returns nil. The slice is valid until the block is freed
// or the heap closed.
func (h *Heap) Bytes(p Ptr) []byte {
	if p == NilPtr {
		return nil
	}
	h.checkLive(p)
	end := uint64(p) + h.blockSize(p)
	return h.buf[p:end:end]
}

// BlockSize returns the capacity of the live block at p: the size it was
// given at allocation time, fixed for the block's lifetime.
func (h *Heap) BlockSize(p Ptr) uint64 {
	h.checkLive(p)
	return h.blockSize(p)
}

// Reserved reports whether the arena has been mapped yet.
func (h *Heap) Reserved() bool {
	return h.buf != nil
}

// ArenaSize returns the total arena capacity in bytes.
func (h *Heap) ArenaSize() uint64 {
	return h.arenaSize
}

// Close unmaps the arena and makes the heap unusable. Every Ptr from this
// heap is invalidated. Any subsequent operation panics. Close is
// idempotent.
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	buf := h.buf
	h.buf = nil
	h.cursor = 0
	h.freeHead = NilPtr
	if buf == nil {
		return nil
	}
	return unreserve(buf)
}

// checkPtr panics unless p plausibly addresses a block payload: inside the
// carved region, past the first header, payload-aligned.
func (h *Heap) checkPtr(p Ptr) {
	if h.closed {
		panic("malloc: use after Close()")
	}
	if uint64(p) < headerSize || uint64(p) > h.cursor || uint64(p)%payloadAlign != 0 {
		panic("malloc: pointer outside carved arena")
	}
}

// checkLive additionally rejects blocks currently on the free list.
func (h *Heap) checkLive(p Ptr) {
	h.checkPtr(p)
	if h.state(p) == stateFree {
		panic("malloc: use of freed pointer")
	}
}

// Header accessors. All take the payload Ptr and reach back into the
// 24-byte header preceding it.

func (h *Heap) blockSize(p Ptr) uint64 {
	return binary.LittleEndian.Uint64(h.buf[uint64(p)-headerSize+hdrSize:])
}

func (h *Heap) state(p Ptr) uint64 {
	return binary.LittleEndian.Uint64(h.buf[uint64(p)-headerSize+hdrState:])
}

func (h *Heap) setState(p Ptr, s uint64) {
	binary.LittleEndian.PutUint64(h.buf[uint64(p)-headerSize+hdrState:], s)
}

func (h *Heap) next(p Ptr) Ptr {
	return Ptr(binary.LittleEndian.Uint64(h.buf[uint64(p)-headerSize+hdrNext:]))
}

func (h *Heap) setNext(p Ptr, n Ptr) {
	binary.LittleEndian.PutUint64(h.buf[uint64(p)-headerSize+hdrNext:], uint64(n))
}

// alignUp rounds n up to the payload alignment.
func alignUp(n uint64) uint64 {
	const mask = payloadAlign - 1
	return (n + mask) &^ mask
}
