package avltree

import "github.com/mstrachan/wordtree/pkg/scm"

// VisitFunc is called once per node during an in-order traversal.
// Returning false stops the traversal early.
type VisitFunc func(key string, count uint64) bool

// traverseInOrder visits every node reachable from root in strictly
// increasing byte-lexicographic key order, calling fn exactly once per
// node until fn returns false or the tree is exhausted.
func (idx *Index) traverseInOrder(root scm.Ptr, fn VisitFunc) error {
	_, err := idx.traverseRec(root, fn)
	return err
}

// traverseRec returns whether traversal should continue.
func (idx *Index) traverseRec(p scm.Ptr, fn VisitFunc) (bool, error) {
	if p == 0 {
		return true, nil
	}

	n, err := idx.loadNode(p)
	if err != nil {
		return false, err
	}

	cont, err := idx.traverseRec(n.left, fn)
	if err != nil || !cont {
		return cont, err
	}

	if !fn(n.keyStr, n.count) {
		return false, nil
	}

	return idx.traverseRec(n.right, fn)
}
