package avltree

import (
	"time"

	"github.com/mstrachan/wordtree/internal/wlog"
)

// Options configures opening or creating an index.
type Options struct {
	// Path is the filesystem path to the backing SCM file.
	Path string

	// Truncate zeros the existing file contents and starts the index
	// fresh. See scm.OpenOptions.Truncate.
	Truncate bool

	// Capacity is the size in bytes to create the backing file with, when
	// it does not already exist.
	Capacity int64

	// DisableLocking disables the interprocess writer lock.
	DisableLocking bool

	// LockTimeout overrides the default writer-lock acquisition timeout.
	LockTimeout time.Duration

	// Logger receives diagnostics such as "delete of absent key". If nil,
	// diagnostics are discarded.
	Logger wlog.Logger
}
