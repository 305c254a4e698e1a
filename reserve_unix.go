//go:build linux || darwin

package malloc

import "golang.org/x/sys/unix"

// reserve maps one contiguous read/write region of n bytes. The mapping is
// private and anonymous, so it is zero-filled and backed by no file, and
// physical pages are committed lazily by the kernel as they are touched.
func reserve(n uint64) ([]byte, error) {
	return unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// unreserve returns the mapping to the operating system.
func unreserve(buf []byte) error {
	return unix.Munmap(buf)
}
