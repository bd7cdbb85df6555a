package huff16

import (
	"bytes"
	"testing"
)

func TestBitPackerMSBFirstWithZeroPadding(t *testing.T) {
	cases := []struct {
		name  string
		codes []Code
		want  []byte
		bits  int64
	}{
		{name: "empty", codes: nil, want: []byte{}, bits: 0},
		{name: "single_one", codes: []Code{{Bits: 1, Len: 1}}, want: []byte{0x80}, bits: 1},
		{name: "single_zero", codes: []Code{{Bits: 0, Len: 1}}, want: []byte{0x00}, bits: 1},
		{name: "full_byte", codes: []Code{{Bits: 0b1010, Len: 4}, {Bits: 0b0101, Len: 4}}, want: []byte{0xA5}, bits: 8},
		{name: "spans_bytes", codes: []Code{{Bits: 0b111, Len: 3}, {Bits: 0b111111, Len: 6}}, want: []byte{0xFF, 0x80}, bits: 9},
		{name: "wide_code", codes: []Code{{Bits: 0xABCD, Len: 16}, {Bits: 1, Len: 2}}, want: []byte{0xAB, 0xCD, 0x40}, bits: 18},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewBitPacker(0)
			for _, c := range tc.codes {
				if err := p.Write(c); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			if p.Bits() != tc.bits {
				t.Fatalf("Bits: got %d want %d", p.Bits(), tc.bits)
			}
			got, err := p.Bytes()
			if err != nil {
				t.Fatalf("Bytes failed: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("packed: got %x want %x", got, tc.want)
			}
			if int64(len(got)) != packedLen(tc.bits) {
				t.Fatalf("packed length %d does not equal ceil(%d/8)", len(got), tc.bits)
			}
		})
	}
}
