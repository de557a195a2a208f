//go:build linux

package scm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapFixed maps length bytes of fd at the fixed virtual address
// baseAddress, refusing rather than silently relocating if that address
// range is already occupied. MAP_FIXED_NOREPLACE is the Go-native
// resolution of the spec's "reject if V lies below the program break"
// check: Go programs have no sbrk-style break to inspect, but a
// pre-occupied address range is the same refusal condition in spirit.
func mmapFixed(fd int, length int64) (uintptr, error) {
	addr := baseAddress

	r1, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		uintptr(length),
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_SHARED|unix.MAP_FIXED_NOREPLACE),
		uintptr(fd),
		0,
	)
	if errno != 0 {
		if errno == unix.EEXIST {
			return 0, ErrAddressUnavailable
		}

		return 0, fmt.Errorf("mmap: %w", errno)
	}

	if r1 != addr {
		_, _, _ = unix.Syscall(unix.SYS_MUNMAP, r1, uintptr(length), 0)

		return 0, fmt.Errorf("%w: kernel mapped at unexpected address", ErrAddressUnavailable)
	}

	return r1, nil
}

// munmapFixed unmaps the region backing data.
func munmapFixed(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)), 0) //nolint:gosec // unmapping the exact region we mapped
	if errno != 0 {
		return errno
	}

	return nil
}

// msync flushes dirty pages of data to the backing file.
func msync(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	return unix.Msync(data, unix.MS_SYNC)
}
