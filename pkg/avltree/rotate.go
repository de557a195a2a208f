package avltree

import "github.com/mstrachan/wordtree/pkg/scm"

// rotateLeft performs a single left rotation at p: p's right child becomes
// the new subtree root, p becomes its left child.
func (idx *Index) rotateLeft(p scm.Ptr) (scm.Ptr, error) {
	n, err := idx.loadNode(p)
	if err != nil {
		return 0, err
	}

	r, err := idx.loadNode(n.right)
	if err != nil {
		return 0, err
	}

	n.right = r.left
	r.left = n.ptr

	if err := idx.recomputeDepth(n); err != nil {
		return 0, err
	}

	if err := idx.storeNode(n); err != nil {
		return 0, err
	}

	if err := idx.recomputeDepth(r); err != nil {
		return 0, err
	}

	if err := idx.storeNode(r); err != nil {
		return 0, err
	}

	return r.ptr, nil
}

// rotateRight performs a single right rotation at p: p's left child
// becomes the new subtree root, p becomes its right child.
func (idx *Index) rotateRight(p scm.Ptr) (scm.Ptr, error) {
	n, err := idx.loadNode(p)
	if err != nil {
		return 0, err
	}

	l, err := idx.loadNode(n.left)
	if err != nil {
		return 0, err
	}

	n.left = l.right
	l.right = n.ptr

	if err := idx.recomputeDepth(n); err != nil {
		return 0, err
	}

	if err := idx.storeNode(n); err != nil {
		return 0, err
	}

	if err := idx.recomputeDepth(l); err != nil {
		return 0, err
	}

	if err := idx.storeNode(l); err != nil {
		return 0, err
	}

	return l.ptr, nil
}

// rebalance recomputes n's depth and, if its balance factor exceeds 1 in
// either direction, applies the appropriate single or double rotation. It
// returns the pointer to the (possibly new) root of the subtree.
//
// The choice between single and double rotation is made by the sign of
// the heavier child's own balance factor: zero or same-direction means a
// single rotation suffices, opposite-direction means a double rotation is
// needed. This covers both the insert path (driven by which side the
// mutated key fell on) and the delete path (driven purely by the heavy
// child's own balance).
func (idx *Index) rebalance(n *node) (scm.Ptr, error) {
	if err := idx.recomputeDepth(n); err != nil {
		return 0, err
	}

	if err := idx.storeNode(n); err != nil {
		return 0, err
	}

	balance, err := idx.balanceFactor(n)
	if err != nil {
		return 0, err
	}

	switch {
	case balance > 1:
		left, err := idx.loadNode(n.left)
		if err != nil {
			return 0, err
		}

		leftBalance, err := idx.balanceFactor(left)
		if err != nil {
			return 0, err
		}

		if leftBalance < 0 {
			newLeft, err := idx.rotateLeft(left.ptr)
			if err != nil {
				return 0, err
			}

			n.left = newLeft

			if err := idx.storeNode(n); err != nil {
				return 0, err
			}
		}

		return idx.rotateRight(n.ptr)

	case balance < -1:
		right, err := idx.loadNode(n.right)
		if err != nil {
			return 0, err
		}

		rightBalance, err := idx.balanceFactor(right)
		if err != nil {
			return 0, err
		}

		if rightBalance > 0 {
			newRight, err := idx.rotateRight(right.ptr)
			if err != nil {
				return 0, err
			}

			n.right = newRight

			if err := idx.storeNode(n); err != nil {
				return 0, err
			}
		}

		return idx.rotateLeft(n.ptr)

	default:
		return n.ptr, nil
	}
}
