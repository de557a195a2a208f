package avltree

import (
	"bytes"

	"github.com/mstrachan/wordtree/pkg/scm"
)

// deleteOutcome classifies what deleteRec did at a given key.
type deleteOutcome int

const (
	outcomeAbsent deleteOutcome = iota
	outcomeDecremented
	outcomeRemoved
)

// deleteRec deletes one occurrence of key from the subtree rooted at p.
//
// If key is absent the subtree is returned unchanged with outcomeAbsent -
// deleting a word that was never inserted is a no-op, not an error. If the
// node's count is above 1, it is decremented in place with no structural
// change and no rebalance. If the count reaches zero the node is physically
// removed using standard BST deletion (0/1/2 children, with the 2-child
// case swapping in the in-order successor's key/count and recursing into
// the right subtree), and the path back up is rebalanced.
//
// The node's key string is freed only once its content has no surviving
// reference: a straightforward removal frees key and node together, while
// the 2-child swap transplants the successor's key pointer into the
// surviving node, frees the deleted key's string, and frees the
// successor's now-empty node block (but not the successor's key).
func (idx *Index) deleteRec(p scm.Ptr, key string) (scm.Ptr, deleteOutcome, error) {
	if p == 0 {
		return 0, outcomeAbsent, nil
	}

	n, err := idx.loadNode(p)
	if err != nil {
		return 0, outcomeAbsent, err
	}

	switch cmp := bytes.Compare([]byte(key), []byte(n.keyStr)); {
	case cmp < 0:
		newLeft, outcome, err := idx.deleteRec(n.left, key)
		if err != nil || outcome == outcomeAbsent {
			return p, outcome, err
		}

		n.left = newLeft

		return idx.finishDelete(n, outcome)

	case cmp > 0:
		newRight, outcome, err := idx.deleteRec(n.right, key)
		if err != nil || outcome == outcomeAbsent {
			return p, outcome, err
		}

		n.right = newRight

		return idx.finishDelete(n, outcome)

	default:
		return idx.deleteHere(n)
	}
}

// finishDelete persists a node whose child changed, rebalancing only when
// the child's subtree shape actually changed (outcomeRemoved) - no
// rebalance runs when nothing structural happened.
func (idx *Index) finishDelete(n *node, outcome deleteOutcome) (scm.Ptr, deleteOutcome, error) {
	if outcome != outcomeRemoved {
		return n.ptr, outcome, nil
	}

	newRoot, err := idx.rebalance(n)

	return newRoot, outcome, err
}

// deleteHere handles the node matching the deleted key exactly.
func (idx *Index) deleteHere(n *node) (scm.Ptr, deleteOutcome, error) {
	if n.count > 1 {
		n.count--
		if err := idx.storeNode(n); err != nil {
			return 0, outcomeAbsent, err
		}

		return n.ptr, outcomeDecremented, nil
	}

	switch {
	case n.left == 0 && n.right == 0:
		if err := idx.freeNodeAndKey(n); err != nil {
			return 0, outcomeAbsent, err
		}

		return 0, outcomeRemoved, nil

	case n.left == 0:
		child := n.right
		if err := idx.freeNodeAndKey(n); err != nil {
			return 0, outcomeAbsent, err
		}

		return child, outcomeRemoved, nil

	case n.right == 0:
		child := n.left
		if err := idx.freeNodeAndKey(n); err != nil {
			return 0, outcomeAbsent, err
		}

		return child, outcomeRemoved, nil

	default:
		return idx.deleteWithTwoChildren(n)
	}
}

// deleteWithTwoChildren swaps n's payload with its in-order successor
// (the minimum of its right subtree) and removes the successor's now
// emptied node from the right subtree.
func (idx *Index) deleteWithTwoChildren(n *node) (scm.Ptr, deleteOutcome, error) {
	newRight, succKey, succCount, err := idx.removeMin(n.right)
	if err != nil {
		return 0, outcomeAbsent, err
	}

	oldKey := n.key

	n.key = succKey
	n.count = succCount
	n.right = newRight

	if err := idx.storeNode(n); err != nil {
		return 0, outcomeAbsent, err
	}

	if err := idx.scm.Free(oldKey); err != nil {
		return 0, outcomeAbsent, err
	}

	newRoot, err := idx.rebalance(n)

	return newRoot, outcomeRemoved, err
}

// removeMin physically removes the minimum (leftmost) node from the
// subtree rooted at p, returning the new subtree root, the removed node's
// key pointer (not freed - the caller transplants it), and its count.
func (idx *Index) removeMin(p scm.Ptr) (scm.Ptr, scm.Ptr, uint64, error) {
	n, err := idx.loadNode(p)
	if err != nil {
		return 0, 0, 0, err
	}

	if n.left == 0 {
		if err := idx.freeNodeBlock(n); err != nil {
			return 0, 0, 0, err
		}

		return n.right, n.key, n.count, nil
	}

	newLeft, succKey, succCount, err := idx.removeMin(n.left)
	if err != nil {
		return 0, 0, 0, err
	}

	n.left = newLeft

	newRoot, err := idx.rebalance(n)

	return newRoot, succKey, succCount, err
}
