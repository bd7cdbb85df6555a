package huff16

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-bitstream"
)

// Decompress rebuilds the Huffman tree from the archive's frequency table
// and walks the packed bits through it until OriginalLen bytes have been
// produced. A bitstream that runs out first is reported as
// ErrCorruptArchive; no partial output is ever returned.
func (a *Archive) Decompress() ([]byte, error) {
	if err := validateArchiveStructure(a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}
	if a.OriginalLen == 0 {
		return []byte{}, nil
	}

	tree, err := BuildTree(a.Table)
	if err != nil {
		return nil, err
	}
	return walkTree(tree, a.Data, a.OriginalLen)
}

func walkTree(tree *Tree, data []byte, originalLen int) ([]byte, error) {
	out := make([]byte, originalLen)
	br := bitstream.NewReader(bytes.NewReader(data))

	root := tree.Root()
	single := tree.IsLeaf(root)
	cur := root
	off := 0
	var bitPos int64

	for off < originalLen {
		bit, err := br.ReadBit()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: bitstream exhausted after %d bits with %d of %d bytes decoded",
					ErrCorruptArchive, bitPos, off, originalLen)
			}
			return nil, err
		}
		bitPos++

		if single {
			// The lone leaf is coded as a single 0 bit.
			if bit {
				return nil, fmt.Errorf("%w: unexpected 1 bit at position %d for single-symbol tree",
					ErrCorruptArchive, bitPos-1)
			}
		} else {
			next, ok := tree.Child(cur, bool(bit))
			if !ok {
				return nil, fmt.Errorf("%w: descended past leaf at bit %d", ErrCorruptArchive, bitPos-1)
			}
			cur = next
			if !tree.IsLeaf(cur) {
				continue
			}
		}

		sym := tree.Symbol(cur)
		out[off] = byte(sym >> 8)
		off++
		if off < originalLen {
			out[off] = byte(sym)
			off++
		}
		cur = root
	}
	return out, nil
}
