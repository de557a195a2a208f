package scm

import (
	"encoding/binary"
	"fmt"
)

// blockHeader is the 9-byte tuple prefacing every block: a 1-byte
// allocated flag and an 8-byte signed payload size.
type blockHeader struct {
	allocated byte
	size      int64
}

func readHeader(data []byte, offset int64) blockHeader {
	return blockHeader{
		allocated: data[offset],
		size:      int64(binary.LittleEndian.Uint64(data[offset+1 : offset+headerSize])), //nolint:gosec // header field widths are fixed
	}
}

func writeHeader(data []byte, offset int64, hdr blockHeader) {
	data[offset] = hdr.allocated
	binary.LittleEndian.PutUint64(data[offset+1:offset+headerSize], uint64(hdr.size)) //nolint:gosec // header field widths are fixed
}

// Allocate finds a block suitable for n payload bytes using a linear
// first-fit scan from offset 0, marks it allocated, and returns a pointer
// to its payload.
//
// Reused free blocks keep their original block_size even when n is
// smaller: the allocator does not compact or shrink slots, so reuse
// accepts internal fragmentation by design.
func (h *Handle) Allocate(n int64) (Ptr, error) {
	if h == nil || h.closed {
		return 0, ErrClosed
	}

	if n < 0 {
		return 0, fmt.Errorf("allocate size must be >= 0: %w", ErrInvalidInput)
	}

	var offset int64

	for {
		if offset+headerSize > h.capacity {
			return 0, ErrRegionExhausted
		}

		hdr := readHeader(h.data, offset)

		switch {
		case hdr.allocated == 0 && hdr.size == 0:
			if offset+headerSize+n > h.capacity {
				return 0, ErrRegionExhausted
			}

			writeHeader(h.data, offset, blockHeader{allocated: 1, size: n})

			return Ptr(baseAddress + uintptr(offset) + headerSize), nil //nolint:gosec // offset bounded by capacity above

		case hdr.allocated == 0 && hdr.size >= n:
			writeHeader(h.data, offset, blockHeader{allocated: 1, size: hdr.size})

			return Ptr(baseAddress + uintptr(offset) + headerSize), nil //nolint:gosec // offset bounded by capacity above

		default:
			offset += headerSize + hdr.size
		}
	}
}

// Free marks the block whose payload starts at p as free. block_size is
// retained so the slot can be reused for allocations of <= that size;
// Free does not merge with neighboring blocks.
func (h *Handle) Free(p Ptr) error {
	if h == nil || h.closed {
		return ErrClosed
	}

	offset, err := h.headerOffset(p)
	if err != nil {
		return err
	}

	hdr := readHeader(h.data, offset)
	hdr.allocated = 0
	writeHeader(h.data, offset, hdr)

	return nil
}

// DuplicateString allocates len(s)+1 bytes, copies s plus a NUL
// terminator, and returns the pointer.
func (h *Handle) DuplicateString(s string) (Ptr, error) {
	n := int64(len(s)) + 1

	p, err := h.Allocate(n)
	if err != nil {
		return 0, err
	}

	buf := h.bytesAt(p, n)
	copy(buf, s)
	buf[len(s)] = 0

	return p, nil
}

// ReadCString reads a NUL-terminated string starting at p.
func (h *Handle) ReadCString(p Ptr) (string, error) {
	offset, err := h.payloadOffset(p)
	if err != nil {
		return "", err
	}

	end := offset
	for end < h.capacity && h.data[end] != 0 {
		end++
	}

	if end >= h.capacity {
		return "", fmt.Errorf("unterminated string at %#x: %w", p, ErrInvalidPointer)
	}

	return string(h.data[offset:end]), nil
}

// Bytes returns a slice of exactly n bytes starting at the payload address
// p, for reading or writing fixed-size structures allocated via Allocate.
func (h *Handle) Bytes(p Ptr, n int64) ([]byte, error) {
	if _, err := h.payloadOffset(p); err != nil {
		return nil, err
	}

	return h.bytesAt(p, n), nil
}

// bytesAt is the unchecked counterpart of Bytes, used internally after the
// caller has already validated p via payloadOffset/headerOffset.
func (h *Handle) bytesAt(p Ptr, n int64) []byte {
	offset := int64(p) - int64(baseAddress) //nolint:gosec // p is validated by callers
	return h.data[offset : offset+n]
}

// payloadOffset validates that p points inside the mapped region and
// returns its offset into h.data.
func (h *Handle) payloadOffset(p Ptr) (int64, error) {
	if p == 0 {
		return 0, fmt.Errorf("null pointer: %w", ErrInvalidPointer)
	}

	offset := int64(p) - int64(baseAddress) //nolint:gosec // bounds checked below
	if offset < headerSize || offset >= h.capacity {
		return 0, fmt.Errorf("pointer %#x out of bounds: %w", p, ErrInvalidPointer)
	}

	return offset, nil
}

// headerOffset validates p and returns the offset of its block header.
func (h *Handle) headerOffset(p Ptr) (int64, error) {
	offset, err := h.payloadOffset(p)
	if err != nil {
		return 0, err
	}

	return offset - headerSize, nil
}
