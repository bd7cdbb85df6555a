package huff16

import (
	"errors"
	"testing"
)

func mustTable(t testing.TB, entries []Entry) *FrequencyTable {
	t.Helper()
	table, err := NewFrequencyTable(entries)
	if err != nil {
		t.Fatalf("NewFrequencyTable failed: %v", err)
	}
	return table
}

func mustTree(t testing.TB, table *FrequencyTable) *Tree {
	t.Helper()
	tree, err := BuildTree(table)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	return tree
}

func TestBuildTreeEmptyTable(t *testing.T) {
	_, err := BuildTree(CountSymbols(nil))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	_, err = BuildTree(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for nil table, got %v", err)
	}
}

func TestBuildTreeSingleLeaf(t *testing.T) {
	tree := mustTree(t, mustTable(t, []Entry{{Symbol: 0x4141, Count: 4}}))

	if tree.Len() != 1 {
		t.Fatalf("Len: got %d want 1", tree.Len())
	}
	root := tree.Root()
	if !tree.IsLeaf(root) {
		t.Fatalf("root should be a leaf")
	}
	if tree.Symbol(root) != 0x4141 {
		t.Fatalf("root symbol: got 0x%04x want 0x4141", tree.Symbol(root))
	}
	if _, ok := tree.Child(root, false); ok {
		t.Fatalf("leaf should have no children")
	}
}

func TestBuildTreeArenaSize(t *testing.T) {
	for n := 1; n <= 40; n++ {
		entries := make([]Entry, n)
		for i := range entries {
			entries[i] = Entry{Symbol: Symbol(i * 3), Count: uint32(i%5 + 1)}
		}
		tree := mustTree(t, mustTable(t, entries))
		if tree.Len() != 2*n-1 {
			t.Fatalf("n=%d: arena size got %d want %d", n, tree.Len(), 2*n-1)
		}
		if tree.Freq(tree.Root()) != mustTable(t, entries).Total() {
			t.Fatalf("n=%d: root frequency %d does not equal total", n, tree.Freq(tree.Root()))
		}
	}
}

// Equal frequencies are resolved by insertion index: leaves in ascending
// symbol order, then merged nodes in creation order.
func TestBuildTreeTieBreakByInsertionOrder(t *testing.T) {
	tree := mustTree(t, mustTable(t, []Entry{
		{Symbol: 30, Count: 1},
		{Symbol: 10, Count: 1},
		{Symbol: 20, Count: 1},
		{Symbol: 40, Count: 1},
	}))

	// Leaves: 0=sym10 1=sym20 2=sym30 3=sym40.
	// Merge 1: (0,1) -> 4. Merge 2: (2,3) -> 5. Merge 3: (4,5) -> 6.
	root := tree.Root()
	if root != 6 {
		t.Fatalf("root index: got %d want 6", root)
	}
	left, _ := tree.Child(root, false)
	right, _ := tree.Child(root, true)
	if left != 4 || right != 5 {
		t.Fatalf("root children: got (%d,%d) want (4,5)", left, right)
	}
	ll, _ := tree.Child(left, false)
	lr, _ := tree.Child(left, true)
	if tree.Symbol(ll) != 10 || tree.Symbol(lr) != 20 {
		t.Fatalf("left subtree symbols: got (%d,%d) want (10,20)", tree.Symbol(ll), tree.Symbol(lr))
	}
}

// A merged node ties with a leaf of the same frequency; the leaf has the
// smaller index and is popped first.
func TestBuildTreeLeafBeforeMergedNodeOnTie(t *testing.T) {
	tree := mustTree(t, mustTable(t, []Entry{
		{Symbol: 1, Count: 1},
		{Symbol: 2, Count: 1},
		{Symbol: 3, Count: 2},
	}))

	// Merge 1: (0,1) -> 3 with freq 2. Merge 2: leaf 2 (freq 2) before node 3.
	root := tree.Root()
	left, _ := tree.Child(root, false)
	right, _ := tree.Child(root, true)
	if !tree.IsLeaf(left) || tree.Symbol(left) != 3 {
		t.Fatalf("left child should be leaf for symbol 3, got index %d", left)
	}
	if tree.IsLeaf(right) {
		t.Fatalf("right child should be the merged node")
	}
}

func TestBuildTreeIndependentOfEntryOrder(t *testing.T) {
	a := []Entry{{Symbol: 5, Count: 2}, {Symbol: 1, Count: 2}, {Symbol: 9, Count: 1}, {Symbol: 7, Count: 1}}
	b := []Entry{{Symbol: 7, Count: 1}, {Symbol: 9, Count: 1}, {Symbol: 1, Count: 2}, {Symbol: 5, Count: 2}}

	ca, err := BuildCodeTable(mustTree(t, mustTable(t, a)))
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	cb, err := BuildCodeTable(mustTree(t, mustTable(t, b)))
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	for _, e := range a {
		x, _ := ca.Lookup(e.Symbol)
		y, _ := cb.Lookup(e.Symbol)
		if x != y {
			t.Fatalf("symbol %d: code %s vs %s", e.Symbol, x, y)
		}
	}
}

// Fibonacci weights produce a maximally unbalanced tree; construction and
// code assignment must cope without recursion.
func TestBuildTreeFibonacciDepth(t *testing.T) {
	const n = 40
	entries := make([]Entry, n)
	a, b := uint32(1), uint32(1)
	for i := 0; i < n; i++ {
		entries[i] = Entry{Symbol: Symbol(i), Count: a}
		a, b = b, a+b
	}
	codes, err := BuildCodeTable(mustTree(t, mustTable(t, entries)))
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	if got := codes.MaxLen(); got != n-1 {
		t.Fatalf("MaxLen: got %d want %d", got, n-1)
	}
}
