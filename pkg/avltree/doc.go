// Package avltree implements a persistent, file-backed ordered multiset of
// strings: a self-balancing binary search tree whose nodes and keys all
// live inside a scm.Handle, so the entire index survives process restarts.
//
// # Basic usage
//
//	idx, err := avltree.Open(avltree.Options{
//	    Path:     "/tmp/words.scm",
//	    Truncate: true,
//	    Capacity: 40 << 20,
//	})
//	if err != nil {
//	    // handle
//	}
//	defer idx.Close()
//
//	_ = idx.Insert("apple")
//	n, err := idx.LookupCount("apple")
//
// # Concurrency
//
// Like scm, avltree is single-threaded, single-writer. See
// [avltree.Options.DisableLocking].
package avltree
