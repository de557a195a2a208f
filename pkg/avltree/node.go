package avltree

import (
	"encoding/binary"

	"github.com/mstrachan/wordtree/pkg/scm"
)

// nodeSize is the on-disk size of a node record: depth (int64), count
// (uint64), key pointer, left pointer, right pointer (uint64 each).
const nodeSize = 8 + 8 + 8 + 8 + 8

const (
	nodeOffDepth = 0
	nodeOffCount = 8
	nodeOffKey   = 16
	nodeOffLeft  = 24
	nodeOffRight = 32
)

// node is the in-memory working copy of a persisted AVL node: height of
// the subtree rooted here, the occurrence count for its key, the key's
// SCM pointer, and its children's SCM pointers.
type node struct {
	ptr   scm.Ptr
	depth int64
	count uint64
	key   scm.Ptr
	left  scm.Ptr
	right scm.Ptr

	keyStr string // decoded once at load time, for comparisons
}

func (idx *Index) loadNode(p scm.Ptr) (*node, error) {
	buf, err := idx.scm.Bytes(p, nodeSize)
	if err != nil {
		return nil, err
	}

	n := &node{
		ptr:   p,
		depth: int64(binary.LittleEndian.Uint64(buf[nodeOffDepth:])), //nolint:gosec // fixed-width field
		count: binary.LittleEndian.Uint64(buf[nodeOffCount:]),
		key:   scm.Ptr(binary.LittleEndian.Uint64(buf[nodeOffKey:])),
		left:  scm.Ptr(binary.LittleEndian.Uint64(buf[nodeOffLeft:])),
		right: scm.Ptr(binary.LittleEndian.Uint64(buf[nodeOffRight:])),
	}

	keyStr, err := idx.scm.ReadCString(n.key)
	if err != nil {
		return nil, err
	}

	n.keyStr = keyStr

	return n, nil
}

func (idx *Index) storeNode(n *node) error {
	buf, err := idx.scm.Bytes(n.ptr, nodeSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint64(buf[nodeOffDepth:], uint64(n.depth)) //nolint:gosec // fixed-width field
	binary.LittleEndian.PutUint64(buf[nodeOffCount:], n.count)
	binary.LittleEndian.PutUint64(buf[nodeOffKey:], uint64(n.key))
	binary.LittleEndian.PutUint64(buf[nodeOffLeft:], uint64(n.left))
	binary.LittleEndian.PutUint64(buf[nodeOffRight:], uint64(n.right))

	return nil
}

// newNode allocates a fresh leaf node for key, with depth 0 and count 1.
func (idx *Index) newNode(key string) (*node, error) {
	keyPtr, err := idx.scm.DuplicateString(key)
	if err != nil {
		return nil, err
	}

	p, err := idx.scm.Allocate(nodeSize)
	if err != nil {
		_ = idx.scm.Free(keyPtr)

		return nil, err
	}

	n := &node{ptr: p, depth: 0, count: 1, key: keyPtr, keyStr: key}
	if storeErr := idx.storeNode(n); storeErr != nil {
		return nil, storeErr
	}

	return n, nil
}

// depthOf returns the depth of the subtree rooted at p, or -1 for a null
// pointer (empty subtree).
func (idx *Index) depthOf(p scm.Ptr) (int64, error) {
	if p == 0 {
		return -1, nil
	}

	n, err := idx.loadNode(p)
	if err != nil {
		return 0, err
	}

	return n.depth, nil
}

// recomputeDepth sets n.depth from its children's current depths. Callers
// must call this after any change to n.left or n.right, before persisting
// or rebalancing.
func (idx *Index) recomputeDepth(n *node) error {
	leftDepth, err := idx.depthOf(n.left)
	if err != nil {
		return err
	}

	rightDepth, err := idx.depthOf(n.right)
	if err != nil {
		return err
	}

	n.depth = 1 + max(leftDepth, rightDepth)

	return nil
}

// balanceFactor returns depth(left) - depth(right) for n.
func (idx *Index) balanceFactor(n *node) (int64, error) {
	leftDepth, err := idx.depthOf(n.left)
	if err != nil {
		return 0, err
	}

	rightDepth, err := idx.depthOf(n.right)
	if err != nil {
		return 0, err
	}

	return leftDepth - rightDepth, nil
}

// freeNodeAndKey fully removes n from storage: its key string and its
// node block. Use when n's content has no surviving reference elsewhere.
func (idx *Index) freeNodeAndKey(n *node) error {
	if err := idx.scm.Free(n.key); err != nil {
		return err
	}

	return idx.scm.Free(n.ptr)
}

// freeNodeBlock frees only n's node block, leaving its key string pointer
// alive. Use when the key pointer is being transplanted into a surviving
// node (the in-order-successor swap in delete).
func (idx *Index) freeNodeBlock(n *node) error {
	return idx.scm.Free(n.ptr)
}
