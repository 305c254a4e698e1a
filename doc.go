// Package malloc implements a classic heap allocator over a single
// fixed-size arena reserved once from the operating system.
//
// # Overview
//
// A Heap hands out blocks from one large anonymous memory mapping. Released
// blocks are threaded onto a free list and reused first-fit; requests that
// no freed block can satisfy are carved from never-used ("virgin") arena
// space by bumping a cursor. This is useful for:
//
//   - Long-lived pools with malloc/free-style churn
//   - Predictable allocation behavior outside the Go garbage collector
//   - Studying and testing allocation strategies against a real mapping
//
// # Basic Usage
//
//	h := malloc.NewHeap(0) // Use the default arena size
//	defer h.Close()        // Unmap when done
//
//	p, err := h.Alloc(1024)
//	if err != nil {
//		// ErrOutOfMemory: the arena is exhausted
//	}
//	buf := h.Bytes(p) // 1024 writable bytes
//	h.Free(p)
//
// # Pointers
//
// Allocations are addressed by Ptr, an offset into the arena rather than a
// raw machine address. NilPtr (zero) is the null pointer. Every block is
// preceded in the arena by a small header recording its size and free-list
// link; Ptr always addresses the payload just past that header. Bounds are
// enforced on every dereference, so a stale Ptr can never read outside the
// arena — but reusing a Ptr after Free is still a caller error and corrupts
// whatever block now owns those bytes.
//
// # Allocation Strategy
//
// Free blocks are reused whole: the first block on the free list whose
// recorded size covers the request wins, even if it is much larger. Blocks
// are never split and adjacent free blocks are never coalesced, so internal
// fragmentation accumulates by design. BlockSize reports the capacity a
// block kept from its original allocation.
//
// # Thread Safety
//
// Heap is not goroutine-safe. For concurrent access, use SafeHeap:
//
//	sh := malloc.NewSafeHeap(0)
//	defer sh.Close()
//
//	p, err := sh.Alloc(1024)
//
// # Memory Layout
//
// The arena is mapped lazily on the first allocation (read/write, private,
// anonymous, zero-filled) and is never grown, shrunk, or returned to the
// operating system before Close. The cursor marking the start of virgin
// space only moves forward. Payloads are aligned to 8 bytes.
//
// # Important Notes
//
//   - Freeing a Ptr twice, or a Ptr the heap never returned, panics when
//     detectable; writing through a Ptr after Free is never detected
//   - Realloc never shrinks: a block keeps its original capacity for life
//   - Memory is zeroed only by AllocZeroed; reused blocks carry old bytes
//
// # Metrics and Monitoring
//
// The heap reports detailed usage statistics:
//
//	m := h.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization * 100)
//	fmt.Printf("Live: %d bytes in %d blocks\n", m.LiveBytes, m.LiveBlocks)
//	fmt.Printf("Free list: %d bytes in %d blocks\n", m.FreeBytes, m.FreeBlocks)
package malloc
