package scm

import "errors"

// Error classification codes.
//
// Implementations MAY wrap these with additional context via fmt.Errorf's
// %w verb. Callers MUST classify errors using errors.Is.
var (
	// ErrNotRegularFile indicates Open was asked to map something other
	// than a regular file (directory, device, socket, ...).
	ErrNotRegularFile = errors.New("scm: not a regular file")

	// ErrAddressUnavailable indicates the fixed virtual address V is
	// already occupied by another mapping in this process, the
	// Go-native equivalent of "the program break has grown past V".
	ErrAddressUnavailable = errors.New("scm: fixed mapping address unavailable")

	// ErrRegionExhausted indicates the allocator scan found no block
	// large enough within capacity.
	ErrRegionExhausted = errors.New("scm: region exhausted")

	// ErrInvalidPointer indicates a pointer passed to Free or a byte
	// accessor does not resolve inside the mapped region.
	ErrInvalidPointer = errors.New("scm: invalid pointer")

	// ErrClosed indicates an operation was attempted on a closed or nil
	// handle.
	ErrClosed = errors.New("scm: handle closed")

	// ErrUnsupportedPlatform indicates the current architecture cannot
	// satisfy the fixed-address mapping contract (32-bit, big-endian, or
	// an OS without MAP_FIXED_NOREPLACE support).
	ErrUnsupportedPlatform = errors.New("scm: unsupported platform")

	// ErrInvalidInput indicates invalid OpenOptions or an invalid argument,
	// such as a negative size passed to Allocate.
	ErrInvalidInput = errors.New("scm: invalid input")
)
