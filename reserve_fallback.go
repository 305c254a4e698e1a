//go:build !(linux || darwin)

package malloc

// reserve allocates the arena from the Go heap on platforms without an
// anonymous-mmap surface in golang.org/x/sys. Semantics are the same: one
// contiguous zero-filled region, never grown.
func reserve(n uint64) ([]byte, error) {
	return make([]byte, n), nil
}

func unreserve(buf []byte) error {
	return nil
}
