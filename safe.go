package malloc

import "sync"

// SafeHeap is a mutex-protected wrapper around Heap for concurrent access.
// One lock guards the cursor and the free list together; no operation has
// a safe interruption point, so every call holds the lock end to end.
type SafeHeap struct {
	mu sync.Mutex
	h  *Heap
}

// NewSafeHeap creates a goroutine-safe heap with the specified arena size.
// If arenaSize <= 0, DefaultArenaSize is used.
func NewSafeHeap(arenaSize int64) *SafeHeap {
	return &SafeHeap{h: NewHeap(arenaSize)}
}

// Alloc thread-safely allocates a block of at least size bytes.
func (s *SafeHeap) Alloc(size uint64) (Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Alloc(size)
}

// AllocZeroed thread-safely allocates a zero-filled block of count*size bytes.
func (s *SafeHeap) AllocZeroed(count, size uint64) (Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.AllocZeroed(count, size)
}

// Realloc thread-safely resizes the block at p.
func (s *SafeHeap) Realloc(p Ptr, size uint64) (Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Realloc(p, size)
}

// Free thread-safely releases the block at p.
func (s *SafeHeap) Free(p Ptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.Free(p)
}

// Bytes thread-safely returns the payload of the block at p. The returned
// slice aliases the arena; the caller must not use it concurrently with a
// Free or Realloc of the same block.
func (s *SafeHeap) Bytes(p Ptr) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Bytes(p)
}

// BlockSize thread-safely returns the capacity of the block at p.
func (s *SafeHeap) BlockSize(p Ptr) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.BlockSize(p)
}

// Reserved thread-safely reports whether the arena has been mapped.
func (s *SafeHeap) Reserved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Reserved()
}

// ArenaSize returns the total arena capacity in bytes.
func (s *SafeHeap) ArenaSize() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.ArenaSize()
}

// Close thread-safely unmaps the arena and makes the heap unusable.
func (s *SafeHeap) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Close()
}

// Metrics thread-safely returns a snapshot of heap statistics.
func (s *SafeHeap) Metrics() HeapMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Metrics()
}

// Utilization thread-safely returns the ratio of live bytes to capacity.
func (s *SafeHeap) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Utilization()
}

// Generic allocation functions for SafeHeap

// SafeNew thread-safely allocates a zeroed block sized for T.
func SafeNew[T any](s *SafeHeap) (Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return New[T](s.h)
}

// SafeNewSlice thread-safely allocates a block for n elements of T.
func SafeNewSlice[T any](s *SafeHeap, n int) (Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewSlice[T](s.h, n)
}

// SafeView thread-safely reinterprets the block at p as a *T. The pointer
// aliases the arena; see Bytes for the aliasing caveat.
func SafeView[T any](s *SafeHeap, p Ptr) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View[T](s.h, p)
}

// SafeViewSlice thread-safely reinterprets the block at p as a []T.
func SafeViewSlice[T any](s *SafeHeap, p Ptr, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewSlice[T](s.h, p, n)
}
