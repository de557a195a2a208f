package avltree

import (
	"encoding/binary"
	"fmt"

	"github.com/mstrachan/wordtree/internal/wlog"
	"github.com/mstrachan/wordtree/pkg/scm"
)

// anchorSize is the on-disk size of the state anchor: items (uint64),
// unique (uint64), root pointer (uint64).
const anchorSize = 8 + 8 + 8

const (
	anchorOffItems  = 0
	anchorOffUnique = 8
	anchorOffRoot   = 16
)

// Index is an open, file-backed AVL multiset handle.
type Index struct {
	scm    *scm.Handle
	anchor scm.Ptr
	logger wlog.Logger
	closed bool
}

// Open opens or creates an index at opts.Path. If the underlying region is
// already in use, the index attaches to the anchor recovered from the
// SCM base; otherwise it allocates a fresh, zeroed anchor there.
func Open(opts Options) (*Index, error) {
	h, err := scm.Open(scm.OpenOptions{
		Path:           opts.Path,
		Truncate:       opts.Truncate,
		Capacity:       opts.Capacity,
		DisableLocking: opts.DisableLocking,
		LockTimeout:    opts.LockTimeout,
	})
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = wlog.Nop{}
	}

	idx := &Index{scm: h, logger: logger}

	if h.Utilized() {
		idx.anchor = h.Base()

		return idx, nil
	}

	p, err := h.Allocate(anchorSize)
	if err != nil {
		_ = h.Close()

		return nil, err
	}

	if p != h.Base() {
		_ = h.Close()

		return nil, fmt.Errorf("avltree: fresh anchor %#x does not equal scm base %#x", p, h.Base())
	}

	idx.anchor = p

	if err := idx.writeAnchor(0, 0, 0); err != nil {
		_ = h.Close()

		return nil, err
	}

	return idx, nil
}

// Close closes the underlying SCM handle. Safe on a nil Index.
func (idx *Index) Close() error {
	if idx == nil || idx.closed {
		return nil
	}

	idx.closed = true

	return idx.scm.Close()
}

func (idx *Index) readAnchor() (items, unique uint64, root scm.Ptr, err error) {
	buf, err := idx.scm.Bytes(idx.anchor, anchorSize)
	if err != nil {
		return 0, 0, 0, err
	}

	items = binary.LittleEndian.Uint64(buf[anchorOffItems:])
	unique = binary.LittleEndian.Uint64(buf[anchorOffUnique:])
	root = scm.Ptr(binary.LittleEndian.Uint64(buf[anchorOffRoot:]))

	return items, unique, root, nil
}

func (idx *Index) writeAnchor(items, unique uint64, root scm.Ptr) error {
	buf, err := idx.scm.Bytes(idx.anchor, anchorSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint64(buf[anchorOffItems:], items)
	binary.LittleEndian.PutUint64(buf[anchorOffUnique:], unique)
	binary.LittleEndian.PutUint64(buf[anchorOffRoot:], uint64(root))

	return nil
}

// Insert updates the tree so that either a new node is created for key (if
// absent) or the existing node's count is incremented. key must be
// non-empty.
func (idx *Index) Insert(key string) error {
	if idx == nil || idx.closed {
		return ErrClosed
	}

	if key == "" {
		return ErrEmptyKey
	}

	items, unique, root, err := idx.readAnchor()
	if err != nil {
		return err
	}

	newRoot, created, err := idx.insertRec(root, key)
	if err != nil {
		return err
	}

	items++
	if created {
		unique++
	}

	return idx.writeAnchor(items, unique, newRoot)
}

// Delete removes one occurrence of key. If key is absent it is a
// user-visible no-op: a diagnostic is logged and nil is returned, never an
// error.
func (idx *Index) Delete(key string) error {
	if idx == nil || idx.closed {
		return ErrClosed
	}

	items, unique, root, err := idx.readAnchor()
	if err != nil {
		return err
	}

	newRoot, outcome, err := idx.deleteRec(root, key)
	if err != nil {
		return err
	}

	switch outcome {
	case outcomeAbsent:
		idx.logger.Infof("delete: key %q not found", key)

		return nil
	case outcomeDecremented:
		items--
	case outcomeRemoved:
		items--
		unique--
	}

	return idx.writeAnchor(items, unique, newRoot)
}

// LookupCount returns count(key), or 0 if key is absent.
func (idx *Index) LookupCount(key string) (uint64, error) {
	if idx == nil || idx.closed {
		return 0, ErrClosed
	}

	_, _, root, err := idx.readAnchor()
	if err != nil {
		return 0, err
	}

	return idx.lookupCount(root, key)
}

// Traverse visits every key in strictly increasing byte-lexicographic
// order, calling fn once per node.
func (idx *Index) Traverse(fn VisitFunc) error {
	if idx == nil || idx.closed {
		return ErrClosed
	}

	_, _, root, err := idx.readAnchor()
	if err != nil {
		return err
	}

	return idx.traverseInOrder(root, fn)
}

// Items returns the total occurrences across all keys.
func (idx *Index) Items() (uint64, error) {
	if idx == nil || idx.closed {
		return 0, ErrClosed
	}

	items, _, _, err := idx.readAnchor()

	return items, err
}

// Unique returns the number of distinct keys.
func (idx *Index) Unique() (uint64, error) {
	if idx == nil || idx.closed {
		return 0, ErrClosed
	}

	_, unique, _, err := idx.readAnchor()

	return unique, err
}
