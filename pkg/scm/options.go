package scm

import "time"

// OpenOptions configures opening or creating an SCM-backed file.
type OpenOptions struct {
	// Path is the filesystem path to the backing file.
	//
	// Required.
	Path string

	// Truncate, when set, zeros the existing bytes of the file for its
	// current length without changing the file's size. Allocation then
	// starts from offset 0. Ignored when the file does not yet exist.
	Truncate bool

	// Capacity is the size in bytes to create the backing file with, when
	// it does not already exist. Ignored for an existing file, whose size
	// on disk is authoritative.
	//
	// Must be > 0 when creating a new file.
	Capacity int64

	// DisableLocking disables the interprocess writer lock.
	//
	// When true, no ".lock" sibling file is used. The caller MUST
	// provide equivalent external synchronization.
	DisableLocking bool

	// LockTimeout overrides the default timeout for acquiring the
	// interprocess writer lock. Zero means use the package default.
	LockTimeout time.Duration
}
