package avltree

import (
	"path/filepath"
	"testing"

	"github.com/mstrachan/wordtree/pkg/scm"
)

func openFreshIndex(t *testing.T) *Index {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.scm")

	idx, err := Open(Options{Path: path, Truncate: true, Capacity: 1 << 20})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() {
		_ = idx.Close()
	})

	return idx
}

// checkBalanced walks the whole tree and fails the test if any node
// violates the AVL balance invariant or has a wrong depth field.
func checkBalanced(t *testing.T, idx *Index, p scm.Ptr) {
	t.Helper()

	if p == 0 {
		return
	}

	n, err := idx.loadNode(p)
	if err != nil {
		t.Fatalf("loadNode(%#x) failed: %v", p, err)
	}

	leftDepth, err := idx.depthOf(n.left)
	if err != nil {
		t.Fatalf("depthOf(left) failed: %v", err)
	}

	rightDepth, err := idx.depthOf(n.right)
	if err != nil {
		t.Fatalf("depthOf(right) failed: %v", err)
	}

	if diff := leftDepth - rightDepth; diff > 1 || diff < -1 {
		t.Fatalf("node %q unbalanced: leftDepth=%d rightDepth=%d", n.keyStr, leftDepth, rightDepth)
	}

	wantDepth := 1 + max(leftDepth, rightDepth)
	if n.depth != wantDepth {
		t.Fatalf("node %q depth = %d, want %d", n.keyStr, n.depth, wantDepth)
	}

	checkBalanced(t, idx, n.left)
	checkBalanced(t, idx, n.right)
}

func TestInsert_BalanceStress_SevenSequentialKeys(t *testing.T) {
	idx := openFreshIndex(t)

	words := []string{"a", "b", "c", "d", "e", "f", "g"}

	for _, w := range words {
		if err := idx.Insert(w); err != nil {
			t.Fatalf("Insert(%q) failed: %v", w, err)
		}

		_, _, root, err := idx.readAnchor()
		if err != nil {
			t.Fatalf("readAnchor failed: %v", err)
		}

		checkBalanced(t, idx, root)
	}

	_, _, root, err := idx.readAnchor()
	if err != nil {
		t.Fatalf("readAnchor failed: %v", err)
	}

	depth, err := idx.depthOf(root)
	if err != nil {
		t.Fatalf("depthOf(root) failed: %v", err)
	}

	if depth != 2 {
		t.Fatalf("final tree depth = %d, want 2", depth)
	}

	rootNode, err := idx.loadNode(root)
	if err != nil {
		t.Fatalf("loadNode(root) failed: %v", err)
	}

	if rootNode.keyStr != "d" {
		t.Fatalf("root key = %q, want %q", rootNode.keyStr, "d")
	}

	var traversed []string

	if err := idx.traverseInOrder(root, func(key string, _ uint64) bool {
		traversed = append(traversed, key)
		return true
	}); err != nil {
		t.Fatalf("traverseInOrder failed: %v", err)
	}

	wantOrder := []string{"a", "b", "c", "d", "e", "f", "g"}
	if len(traversed) != len(wantOrder) {
		t.Fatalf("traversed %v, want %v", traversed, wantOrder)
	}

	for i := range wantOrder {
		if traversed[i] != wantOrder[i] {
			t.Fatalf("traversed %v, want %v", traversed, wantOrder)
		}
	}
}

func TestDelete_LeafThenRebalance(t *testing.T) {
	idx := openFreshIndex(t)

	for _, w := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		if err := idx.Insert(w); err != nil {
			t.Fatalf("Insert(%q) failed: %v", w, err)
		}
	}

	if err := idx.Delete("g"); err != nil {
		t.Fatalf("Delete(g) failed: %v", err)
	}

	if err := idx.Delete("f"); err != nil {
		t.Fatalf("Delete(f) failed: %v", err)
	}

	_, _, root, err := idx.readAnchor()
	if err != nil {
		t.Fatalf("readAnchor failed: %v", err)
	}

	checkBalanced(t, idx, root)

	unique, err := idx.Unique()
	if err != nil {
		t.Fatalf("Unique failed: %v", err)
	}

	if unique != 5 {
		t.Fatalf("Unique() = %d, want 5", unique)
	}

	items, err := idx.Items()
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}

	if items != 5 {
		t.Fatalf("Items() = %d, want 5", items)
	}
}
