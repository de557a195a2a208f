//go:build !linux

package scm

import "fmt"

// mmapFixed is unsupported outside Linux: MAP_FIXED_NOREPLACE, the
// Go-native resolution of the spec's fixed-address admission check, is a
// Linux-only mmap flag.
func mmapFixed(int, int64) (uintptr, error) {
	return 0, fmt.Errorf("%w: fixed-address mapping requires Linux", ErrUnsupportedPlatform)
}

func munmapFixed([]byte) error {
	return fmt.Errorf("%w: fixed-address mapping requires Linux", ErrUnsupportedPlatform)
}

func msync([]byte) error {
	return fmt.Errorf("%w: fixed-address mapping requires Linux", ErrUnsupportedPlatform)
}
