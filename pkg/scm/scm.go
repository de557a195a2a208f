package scm

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"os"
	"unsafe"

	"github.com/mstrachan/wordtree/internal/wclock"
)

// baseAddress is the fixed virtual address V at which every SCM region is
// mapped, per the persisted-pointer discipline: a pointer handed out by
// Allocate equals baseAddress + headerOffset + headerSize, and remains
// valid across process restarts because the region is always mapped here.
const baseAddress uintptr = 0x600000000000

// headerSize is the on-disk size of a block header: 1 byte allocated flag
// plus an 8 byte signed block_size.
const headerSize = 9

// is64Bit and isLittleEndian guard the fixed mapping and the on-disk
// little-endian header encoding, which only make sense on 64-bit,
// little-endian hosts. Computed once at package init time.
var isLittleEndian = func() bool {
	var buf [2]byte
	buf[0] = 0x01

	return binary.NativeEndian.Uint16(buf[:]) == 0x01
}()

var is64Bit = bits.UintSize == 64

// Ptr is an absolute pointer into a mapped SCM region: baseAddress plus the
// offset of a block's payload. The zero value is the null pointer.
type Ptr uintptr

// Handle represents an open SCM region.
type Handle struct {
	path     string
	file     *os.File
	data     []byte // the mapped region, len == capacity, based at baseAddress
	capacity int64
	lock     *wclock.Lock
	closed   bool
}

// Open opens the regular file at opts.Path for read/write, creating it
// with opts.Capacity bytes if it does not exist, and maps it at the fixed
// virtual address baseAddress.
func Open(opts OpenOptions) (*Handle, error) {
	if !is64Bit {
		return nil, fmt.Errorf("%w: scm requires a 64-bit architecture", ErrUnsupportedPlatform)
	}

	if !isLittleEndian {
		return nil, fmt.Errorf("%w: scm requires a little-endian architecture", ErrUnsupportedPlatform)
	}

	if opts.Path == "" {
		return nil, fmt.Errorf("path is required: %w", ErrInvalidInput)
	}

	var lock *wclock.Lock

	if !opts.DisableLocking {
		timeout := opts.LockTimeout
		if timeout <= 0 {
			timeout = wclock.DefaultTimeout
		}

		acquired, err := wclock.Acquire(opts.Path, timeout)
		if err != nil {
			return nil, fmt.Errorf("acquire writer lock: %w", err)
		}

		lock = acquired
	}

	h, err := openLocked(opts)
	if err != nil {
		lock.Release()

		return nil, err
	}

	h.lock = lock

	return h, nil
}

func openLocked(opts OpenOptions) (*Handle, error) {
	file, size, err := openOrCreateBackingFile(opts)
	if err != nil {
		return nil, err
	}

	if opts.Truncate {
		if zeroErr := zeroFileContents(file, size); zeroErr != nil {
			_ = file.Close()

			return nil, fmt.Errorf("truncate: %w", zeroErr)
		}
	}

	addr, err := mmapFixed(int(file.Fd()), size)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size) //nolint:gosec // fixed-address mapping by design

	return &Handle{
		path:     opts.Path,
		file:     file,
		data:     data,
		capacity: size,
	}, nil
}

// openOrCreateBackingFile opens opts.Path, creating it with opts.Capacity
// bytes if it does not exist yet, and returns the open file plus its size.
func openOrCreateBackingFile(opts OpenOptions) (*os.File, int64, error) {
	file, err := os.OpenFile(opts.Path, os.O_RDWR, 0)
	if err == nil {
		info, statErr := file.Stat()
		if statErr != nil {
			_ = file.Close()

			return nil, 0, fmt.Errorf("stat: %w", statErr)
		}

		if !info.Mode().IsRegular() {
			_ = file.Close()

			return nil, 0, ErrNotRegularFile
		}

		return file, info.Size(), nil
	}

	if !os.IsNotExist(err) {
		if info, statErr := os.Stat(opts.Path); statErr == nil && !info.Mode().IsRegular() {
			return nil, 0, ErrNotRegularFile
		}

		return nil, 0, fmt.Errorf("open: %w", err)
	}

	if opts.Capacity <= 0 {
		return nil, 0, fmt.Errorf("capacity must be > 0 to create %q: %w", opts.Path, ErrInvalidInput)
	}

	file, createErr := os.OpenFile(opts.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // regular data file
	if createErr != nil {
		return nil, 0, fmt.Errorf("create: %w", createErr)
	}

	if truncErr := file.Truncate(opts.Capacity); truncErr != nil {
		_ = file.Close()

		return nil, 0, fmt.Errorf("truncate new file: %w", truncErr)
	}

	return file, opts.Capacity, nil
}

// zeroFileContents overwrites the first size bytes of file with zeros
// without changing the file's length.
func zeroFileContents(file *os.File, size int64) error {
	const chunkSize = 1 << 20

	buf := make([]byte, chunkSize)

	var written int64

	for written < size {
		n := chunkSize
		if remaining := size - written; remaining < int64(n) {
			n = int(remaining)
		}

		if _, err := file.WriteAt(buf[:n], written); err != nil {
			return err
		}

		written += int64(n)
	}

	return nil
}

// Close flushes the mapping to disk, unmaps it, closes the file, and
// releases the writer lock. Safe to call on a nil Handle.
func (h *Handle) Close() error {
	if h == nil || h.closed {
		return nil
	}

	h.closed = true

	var flushErr error
	if len(h.data) > 0 {
		if err := msync(h.data); err != nil {
			flushErr = fmt.Errorf("msync: %w", err)
		}

		if err := munmapFixed(h.data); err != nil && flushErr == nil {
			flushErr = fmt.Errorf("munmap: %w", err)
		}
	}

	closeErr := h.file.Close()
	h.lock.Release()

	if flushErr != nil {
		return flushErr
	}

	if closeErr != nil {
		return fmt.Errorf("close: %w", closeErr)
	}

	return nil
}

// Base returns the payload address of the first block: the persistent
// root anchor at which the caller's root structure lives.
func (h *Handle) Base() Ptr {
	return Ptr(baseAddress + headerSize)
}

// Utilized reports whether the region has ever had its first block
// allocated. It is a flag, not a byte count: it reads the allocated byte
// of the first block's header.
func (h *Handle) Utilized() bool {
	if h == nil || len(h.data) == 0 {
		return false
	}

	return h.data[0] != 0
}

// Capacity returns the region capacity in bytes.
func (h *Handle) Capacity() int64 {
	return h.capacity
}
