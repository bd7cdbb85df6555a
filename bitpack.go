package huff16

import (
	"bytes"

	"github.com/dgryski/go-bitstream"
)

// BitPacker concatenates prefix codes into a byte buffer, MSB first. The
// final byte is zero-padded on its low end; the padding is not recorded.
type BitPacker struct {
	buf  bytes.Buffer
	w    *bitstream.BitWriter
	bits int64
}

// NewBitPacker returns a packer with room for sizeHint output bytes.
func NewBitPacker(sizeHint int) *BitPacker {
	p := &BitPacker{}
	if sizeHint > 0 {
		p.buf.Grow(sizeHint)
	}
	p.w = bitstream.NewWriter(&p.buf)
	return p
}

// Write appends the bits of c.
func (p *BitPacker) Write(c Code) error {
	if err := p.w.WriteBits(c.Bits, c.Len); err != nil {
		return err
	}
	p.bits += int64(c.Len)
	return nil
}

// Bits returns the number of payload bits written so far.
func (p *BitPacker) Bits() int64 {
	return p.bits
}

// Bytes pads the last partial byte with zeros and returns the packed
// buffer. No further writes are allowed afterwards.
func (p *BitPacker) Bytes() ([]byte, error) {
	if err := p.w.Flush(bitstream.Zero); err != nil {
		return nil, err
	}
	return p.buf.Bytes(), nil
}

// packedLen returns ceil(bits/8).
func packedLen(bits int64) int64 {
	return (bits + 7) / 8
}
