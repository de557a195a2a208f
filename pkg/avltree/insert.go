package avltree

import (
	"bytes"

	"github.com/mstrachan/wordtree/pkg/scm"
)

// insertRec inserts key into the subtree rooted at p, returning the
// (possibly new) subtree root and whether a new node was created.
//
// On an equal-key match it only increments count and leaves the tree
// shape untouched - since the tree shape did not change, no rebalance is
// needed.
func (idx *Index) insertRec(p scm.Ptr, key string) (scm.Ptr, bool, error) {
	if p == 0 {
		n, err := idx.newNode(key)
		if err != nil {
			return 0, false, err
		}

		return n.ptr, true, nil
	}

	n, err := idx.loadNode(p)
	if err != nil {
		return 0, false, err
	}

	switch cmp := bytes.Compare([]byte(key), []byte(n.keyStr)); {
	case cmp == 0:
		n.count++

		if err := idx.storeNode(n); err != nil {
			return 0, false, err
		}

		return n.ptr, false, nil

	case cmp < 0:
		newLeft, created, err := idx.insertRec(n.left, key)
		if err != nil {
			return 0, false, err
		}

		n.left = newLeft

		newRoot, err := idx.rebalance(n)

		return newRoot, created, err

	default:
		newRight, created, err := idx.insertRec(n.right, key)
		if err != nil {
			return 0, false, err
		}

		n.right = newRight

		newRoot, err := idx.rebalance(n)

		return newRoot, created, err
	}
}
