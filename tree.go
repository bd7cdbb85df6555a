package huff16

import (
	"container/heap"
	"fmt"
)

const noChild = -1

// node is one arena slot. Leaves have left == right == noChild.
type node struct {
	freq  uint64
	sym   Symbol
	left  int32
	right int32
}

// Tree is a Huffman tree stored as a node arena. Leaves occupy the first
// Leaves() slots in ascending symbol order; internal nodes follow in the
// order they were merged. A node's arena index doubles as its insertion
// sequence number for tie-breaking.
type Tree struct {
	nodes []node
	root  int32
}

// nodeQueue is a min-heap of arena indices ordered by (frequency, index).
type nodeQueue struct {
	nodes *[]node
	items []int32
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	fa, fb := (*q.nodes)[a].freq, (*q.nodes)[b].freq
	if fa != fb {
		return fa < fb
	}
	return a < b
}

func (q *nodeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *nodeQueue) Push(x any) { q.items = append(q.items, x.(int32)) }

func (q *nodeQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

// BuildTree constructs the Huffman tree for t. The two lowest nodes under
// (frequency, insertion index) are merged repeatedly, the first popped
// becoming the left child. Identical tables always yield identical trees.
func BuildTree(t *FrequencyTable) (*Tree, error) {
	if t == nil || t.Len() == 0 {
		return nil, fmt.Errorf("%w: frequency table is empty", ErrEmptyInput)
	}

	n := t.Len()
	nodes := make([]node, 0, 2*n-1)
	for _, e := range t.entries {
		nodes = append(nodes, node{freq: uint64(e.Count), sym: e.Symbol, left: noChild, right: noChild})
	}

	q := &nodeQueue{nodes: &nodes, items: make([]int32, n)}
	for i := range q.items {
		q.items[i] = int32(i)
	}
	heap.Init(q)

	for q.Len() > 1 {
		left := heap.Pop(q).(int32)
		right := heap.Pop(q).(int32)
		nodes = append(nodes, node{
			freq:  nodes[left].freq + nodes[right].freq,
			left:  left,
			right: right,
		})
		heap.Push(q, int32(len(nodes)-1))
	}

	return &Tree{nodes: nodes, root: heap.Pop(q).(int32)}, nil
}

// Root returns the arena index of the root node.
func (tr *Tree) Root() int32 { return tr.root }

// Len returns the number of nodes in the arena.
func (tr *Tree) Len() int { return len(tr.nodes) }

// IsLeaf reports whether node i has no children.
func (tr *Tree) IsLeaf(i int32) bool {
	return tr.nodes[i].left == noChild
}

// Symbol returns the symbol held by leaf i.
func (tr *Tree) Symbol(i int32) Symbol { return tr.nodes[i].sym }

// Freq returns the (combined) frequency of node i.
func (tr *Tree) Freq(i int32) uint64 { return tr.nodes[i].freq }

// Child returns the left (bit 0) or right (bit 1) child of node i, and false
// when i is a leaf.
func (tr *Tree) Child(i int32, bit bool) (int32, bool) {
	nd := tr.nodes[i]
	if nd.left == noChild {
		return noChild, false
	}
	if bit {
		return nd.right, true
	}
	return nd.left, true
}
