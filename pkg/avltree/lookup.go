package avltree

import (
	"bytes"

	"github.com/mstrachan/wordtree/pkg/scm"
)

// lookupCount performs a pure iterative BST descent for key, returning
// its occurrence count or 0 if absent.
func (idx *Index) lookupCount(root scm.Ptr, key string) (uint64, error) {
	p := root
	needle := []byte(key)

	for p != 0 {
		n, err := idx.loadNode(p)
		if err != nil {
			return 0, err
		}

		switch cmp := bytes.Compare(needle, []byte(n.keyStr)); {
		case cmp == 0:
			return n.count, nil
		case cmp < 0:
			p = n.left
		default:
			p = n.right
		}
	}

	return 0, nil
}
