// Package scm implements Storage-Class Memory: a single-file persistent
// heap that maps a regular file at a fixed virtual address, so that
// pointers stored inside it remain valid across process restarts.
//
// # Basic usage
//
//	h, err := scm.Open(scm.OpenOptions{
//	    Path:     "/tmp/words.scm",
//	    Truncate: true,
//	    Capacity: 40 << 20,
//	})
//	if err != nil {
//	    // handle
//	}
//	defer h.Close()
//
//	p, err := h.Allocate(16)
//	h.Free(p)
//
// The region is logically a sequence of blocks, each prefaced by a 9-byte
// header (1 byte allocated flag, 8 byte signed payload size). The payload
// of the very first block is the persistent root anchor: callers build
// their own root structure at [Handle.Base] and recover it across restarts
// by re-reading that address after a non-truncating [Open].
//
// # Concurrency
//
// scm is single-threaded, single-writer. [Open] acquires an interprocess
// advisory lock (see [OpenOptions.DisableLocking]) so that two processes
// racing to open the same backing file fail fast instead of corrupting the
// region; the mapped region itself is not further synchronized.
//
// # Error handling
//
// I/O and mmap failures are returned from [Open] and are not retried.
// [Handle.Allocate] returns [ErrRegionExhausted] when no suitable slot
// exists within capacity; it performs no partial mutation on failure.
package scm
