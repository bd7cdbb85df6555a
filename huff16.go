// Package huff16 implements a lossless Huffman codec over 16-bit symbols
// formed from consecutive byte pairs.
//
// An archive stores only the symbol frequencies; the decoder rebuilds the
// exact same tree from them, so tree construction is fully deterministic:
// ties between equal frequencies are broken by insertion order, with leaves
// inserted in ascending symbol order.
package huff16

import (
	"errors"
	"fmt"
	"math"
)

// Config holds codec limits.
type Config struct {
	MaxInputBytes int // Largest input (encode) or declared output (decode); 0 = math.MaxInt32
}

// Option is a functional option for configuring the codec.
type Option func(*Config)

// WithMaxInputBytes caps the number of plain bytes the codec will accept
// on encode or produce on decode. Values above math.MaxInt32 are clamped.
// Independently of this limit, an input whose packed payload would exceed
// 1 GiB fails with ErrInputTooLarge before any bits are written.
func WithMaxInputBytes(n int) Option {
	return func(c *Config) {
		c.MaxInputBytes = n
	}
}

var (
	// ErrEmptyInput indicates an attempt to encode zero bytes.
	ErrEmptyInput = errors.New("empty input")
	// ErrCorruptArchive indicates a malformed or truncated archive.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrInputTooLarge indicates the input or declared output exceeds the configured limit.
	ErrInputTooLarge = errors.New("input too large")
)

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func resolveMaxInput(cfg Config) int {
	if cfg.MaxInputBytes <= 0 || cfg.MaxInputBytes > math.MaxInt32 {
		return math.MaxInt32
	}
	return cfg.MaxInputBytes
}

// Encoder compresses byte sequences into archives.
type Encoder struct {
	config Config
}

// NewEncoder creates a new encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{config: newConfig(opts)}
}

// Encode compresses data. It fails with ErrEmptyInput for zero-length input.
func (e *Encoder) Encode(data []byte) (*Archive, error) {
	a, _, err := e.EncodeDetailed(data)
	return a, err
}

// EncodeDetailed is Encode that also returns the code table used, for
// diagnostics.
func (e *Encoder) EncodeDetailed(data []byte) (*Archive, *CodeTable, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if limit := resolveMaxInput(e.config); len(data) > limit {
		return nil, nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrInputTooLarge, len(data), limit)
	}

	table := CountSymbols(data)
	tree, err := BuildTree(table)
	if err != nil {
		return nil, nil, err
	}
	codes, err := BuildCodeTable(tree)
	if err != nil {
		return nil, nil, err
	}

	var bits int64
	table.Each(func(e Entry) {
		if c, ok := codes.Lookup(e.Symbol); ok {
			bits += int64(e.Count) * int64(c.Len)
		}
	})
	size := packedLen(bits)
	if err := checkPayloadSize(size); err != nil {
		return nil, nil, err
	}

	packer := NewBitPacker(int(size))
	for i := 0; i < len(data); i += 2 {
		sym := pairSymbol(data, i)
		code, ok := codes.Lookup(sym)
		if !ok {
			return nil, nil, fmt.Errorf("no code for symbol 0x%04x", sym)
		}
		if err := packer.Write(code); err != nil {
			return nil, nil, err
		}
	}
	packed, err := packer.Bytes()
	if err != nil {
		return nil, nil, err
	}

	return &Archive{
		Table:       table,
		OriginalLen: len(data),
		Data:        packed,
	}, codes, nil
}

// Decoder restores byte sequences from archives.
type Decoder struct {
	config Config
}

// NewDecoder creates a new decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{config: newConfig(opts)}
}

// Decode parses and decompresses a serialized archive.
func (d *Decoder) Decode(data []byte) ([]byte, error) {
	var a Archive
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return d.DecodeArchive(&a)
}

// DecodeArchive decompresses an already parsed archive.
func (d *Decoder) DecodeArchive(a *Archive) ([]byte, error) {
	if limit := resolveMaxInput(d.config); a.OriginalLen > limit {
		return nil, fmt.Errorf("%w: archive declares %d bytes, limit %d", ErrInputTooLarge, a.OriginalLen, limit)
	}
	return a.Decompress()
}

// Encode compresses data into a serialized archive using default options.
func Encode(data []byte) ([]byte, error) {
	a, err := NewEncoder().Encode(data)
	if err != nil {
		return nil, err
	}
	return a.MarshalBinary()
}

// Decode restores the bytes of a serialized archive using default options.
func Decode(archive []byte) ([]byte, error) {
	return NewDecoder().Decode(archive)
}
