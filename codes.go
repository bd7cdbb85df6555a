package huff16

import (
	"fmt"
	"strings"
)

// maxCodeLen is the longest code that fits a Code's bit field.
const maxCodeLen = 64

// Code is a prefix code held in the low Len bits of Bits, most significant
// bit first.
type Code struct {
	Bits uint64
	Len  int
}

// String renders the code as a string of '0' and '1'.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(c.Len)
	for i := c.Len - 1; i >= 0; i-- {
		if c.Bits>>uint(i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// CodeTable maps each symbol of a tree to its prefix code. It is built
// once per encode and never persisted.
type CodeTable struct {
	codes map[Symbol]Code
}

// BuildCodeTable walks tree depth-first, appending 0 for left and 1 for
// right. A tree that is a single leaf gets the one-bit code "0".
func BuildCodeTable(tree *Tree) (*CodeTable, error) {
	codes := make(map[Symbol]Code, (tree.Len()+1)/2)

	root := tree.Root()
	if tree.IsLeaf(root) {
		codes[tree.Symbol(root)] = Code{Bits: 0, Len: 1}
		return &CodeTable{codes: codes}, nil
	}

	type frame struct {
		idx  int32
		code Code
	}
	stack := []frame{{idx: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if tree.IsLeaf(f.idx) {
			codes[tree.Symbol(f.idx)] = f.code
			continue
		}
		if f.code.Len == maxCodeLen {
			return nil, fmt.Errorf("code length exceeds %d bits", maxCodeLen)
		}

		left, _ := tree.Child(f.idx, false)
		right, _ := tree.Child(f.idx, true)
		// Right is pushed first so the left subtree is visited first.
		stack = append(stack,
			frame{idx: right, code: Code{Bits: f.code.Bits<<1 | 1, Len: f.code.Len + 1}},
			frame{idx: left, code: Code{Bits: f.code.Bits << 1, Len: f.code.Len + 1}},
		)
	}
	return &CodeTable{codes: codes}, nil
}

// Lookup returns the code for sym.
func (ct *CodeTable) Lookup(sym Symbol) (Code, bool) {
	c, ok := ct.codes[sym]
	return c, ok
}

// Len returns the number of symbols with a code.
func (ct *CodeTable) Len() int {
	return len(ct.codes)
}

// MaxLen returns the longest code length in the table.
func (ct *CodeTable) MaxLen() int {
	m := 0
	for _, c := range ct.codes {
		if c.Len > m {
			m = c.Len
		}
	}
	return m
}
