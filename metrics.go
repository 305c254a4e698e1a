package malloc

// Carved returns the number of arena bytes consumed from virgin space so
// far: headers plus padded payloads, live and free alike. The cursor never
// retreats, so this figure is monotonically non-decreasing.
func (h *Heap) Carved() uint64 {
	return h.cursor
}

// LiveBytes returns the total payload capacity of blocks currently held by
// callers.
func (h *Heap) LiveBytes() uint64 {
	var n uint64
	h.scanBlocks(func(_ Ptr, size uint64, free bool) {
		if !free {
			n += size
		}
	})
	return n
}

// LiveBlocks returns the number of blocks currently held by callers.
func (h *Heap) LiveBlocks() int {
	n := 0
	h.scanBlocks(func(_ Ptr, _ uint64, free bool) {
		if !free {
			n++
		}
	})
	return n
}

// FreeBytes returns the total payload capacity sitting on the free list.
func (h *Heap) FreeBytes() uint64 {
	var n uint64
	h.scanBlocks(func(_ Ptr, size uint64, free bool) {
		if free {
			n += size
		}
	})
	return n
}

// FreeBlocks returns the length of the free list.
func (h *Heap) FreeBlocks() int {
	n := 0
	h.scanBlocks(func(_ Ptr, _ uint64, free bool) {
		if free {
			n++
		}
	})
	return n
}

// Utilization returns the ratio of live payload bytes to arena capacity
// (0.0 to 1.0).
func (h *Heap) Utilization() float64 {
	if h.arenaSize == 0 {
		return 0
	}
	return float64(h.LiveBytes()) / float64(h.arenaSize)
}

// Metrics returns a snapshot of heap statistics.
func (h *Heap) Metrics() HeapMetrics {
	m := HeapMetrics{
		ArenaSize: h.arenaSize,
		Carved:    h.cursor,
	}
	h.scanBlocks(func(_ Ptr, size uint64, free bool) {
		if free {
			m.FreeBlocks++
			m.FreeBytes += size
		} else {
			m.LiveBlocks++
			m.LiveBytes += size
		}
	})
	if m.ArenaSize > 0 {
		m.Utilization = float64(m.LiveBytes) / float64(m.ArenaSize)
	}
	return m
}

// HeapMetrics contains statistical information about a heap.
type HeapMetrics struct {
	ArenaSize   uint64  // Total arena capacity in bytes
	Carved      uint64  // Bytes consumed from virgin space (headers included)
	LiveBlocks  int     // Blocks currently allocated to callers
	LiveBytes   uint64  // Payload capacity of live blocks
	FreeBlocks  int     // Blocks on the free list
	FreeBytes   uint64  // Payload capacity on the free list
	Utilization float64 // Ratio of live bytes to arena capacity (0.0-1.0)
}

// scanBlocks walks every block header below the cursor in address order.
// Header placement is recoverable from sizes alone because footprints are
// padded to the payload alignment.
func (h *Heap) scanBlocks(fn func(p Ptr, size uint64, free bool)) {
	if h.buf == nil {
		return
	}
	off := uint64(0)
	for off < h.cursor {
		p := Ptr(off + headerSize)
		size := h.blockSize(p)
		fn(p, size, h.state(p) == stateFree)
		off += headerSize + alignUp(size)
	}
}
