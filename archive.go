package huff16

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	entryWireSize   = 2 + 4   // symbol uint16 + freq int32
	maxPayloadBytes = 1 << 30 // 1 GiB
)

// Wire format, all integers little-endian:
//
//	symbolCount          = int32
//	repeat symbolCount times:
//	  symbol             = uint16
//	  freq               = int32
//	originalByteLength   = int32
//	compressedByteLength = int32
//	compressedData       = compressedByteLength bytes
//
// Entries are written in ascending symbol order. Readers accept any order,
// since tree construction sorts the table first.

// Archive is an encoded byte sequence: the frequency table the decoder
// rebuilds the tree from, the original length and the packed bitstream.
type Archive struct {
	Table       *FrequencyTable
	OriginalLen int
	Data        []byte
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// corrupt wraps read failures. Running out of input means the archive is
// truncated; any other error is passed through as is.
func corrupt(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", ErrCorruptArchive, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// checkPayloadSize reports payloads beyond maxPayloadBytes as
// ErrInputTooLarge.
func checkPayloadSize(n int64) error {
	if n > maxPayloadBytes {
		return fmt.Errorf("%w: compressed payload of %d bytes exceeds %d", ErrInputTooLarge, n, maxPayloadBytes)
	}
	return nil
}

func validateArchiveStructure(a *Archive) error {
	if a.Table == nil {
		return fmt.Errorf("missing frequency table")
	}
	if a.OriginalLen < 0 || a.OriginalLen > math.MaxInt32 {
		return fmt.Errorf("original length out of range: %d", a.OriginalLen)
	}
	if err := checkPayloadSize(int64(len(a.Data))); err != nil {
		return err
	}
	want := uint64(symbolCount(a.OriginalLen))
	if a.Table.Total() != want {
		return fmt.Errorf("frequency total %d does not match %d blocks for %d bytes", a.Table.Total(), want, a.OriginalLen)
	}
	// Every symbol costs at least one bit.
	if want > 8*uint64(len(a.Data)) {
		return fmt.Errorf("%d payload bytes cannot hold %d symbols", len(a.Data), want)
	}
	if a.Table.Len() == 0 && len(a.Data) != 0 {
		return fmt.Errorf("empty frequency table with %d payload bytes", len(a.Data))
	}
	return nil
}

// SpaceUsed returns the serialized size of the archive in bytes.
func (a *Archive) SpaceUsed() int {
	n := 4 + 4 + 4 + len(a.Data)
	if a.Table != nil {
		n += a.Table.Len() * entryWireSize
	}
	return n
}

func (a *Archive) appendHeader(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(a.Table.Len()))
	for _, e := range a.Table.entries {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(e.Symbol))
		dst = binary.LittleEndian.AppendUint32(dst, e.Count)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(a.OriginalLen))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(a.Data)))
	return dst
}

// WriteTo serializes the Archive to an io.Writer.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := validateArchiveStructure(a); err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}

	header := a.appendHeader(make([]byte, 0, 12+a.Table.Len()*entryWireSize))

	var total int64
	n, err := writeBytes(w, header)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeBytes(w, a.Data)
	total += n
	if err != nil {
		return total, err
	}
	return total, nil
}

// MarshalBinary returns the wire encoding of the archive.
func (a *Archive) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(a.SpaceUsed())
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lener is implemented by in-memory readers such as *bytes.Reader; it lets
// ReadFrom check declared lengths before allocating.
type lener interface {
	Len() int
}

func readInt32(r io.Reader, v *int32) error {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	*v = int32(binary.LittleEndian.Uint32(b[:]))
	return nil
}

// ReadFrom deserializes an Archive from an io.Reader. Every structural
// problem is reported as ErrCorruptArchive with the offending offset.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var total int64

	var count int32
	countOffset := total
	if err := readInt32(r, &count); err != nil {
		return total, corrupt(err, "read symbol count at offset %d", countOffset)
	}
	total += 4
	if count < 0 || count > maxSymbols {
		return total, fmt.Errorf("%w: invalid symbol count at offset %d: %d", ErrCorruptArchive, countOffset, count)
	}

	entriesOffset := total
	raw := make([]byte, int(count)*entryWireSize)
	n, err := io.ReadFull(r, raw)
	total += int64(n)
	if err != nil {
		return total, corrupt(err, "read frequency table at offset %d (%d entries)", entriesOffset, count)
	}

	entries := make([]Entry, count)
	for i := range entries {
		rec := raw[i*entryWireSize:]
		freq := int32(binary.LittleEndian.Uint32(rec[2:6]))
		if freq < 0 {
			return total, fmt.Errorf("%w: negative frequency at offset %d (entry %d): %d",
				ErrCorruptArchive, entriesOffset+int64(i*entryWireSize)+2, i, freq)
		}
		entries[i] = Entry{Symbol: Symbol(binary.LittleEndian.Uint16(rec[0:2])), Count: uint32(freq)}
	}
	table, err := NewFrequencyTable(entries)
	if err != nil {
		return total, fmt.Errorf("%w: frequency table at offset %d: %w", ErrCorruptArchive, entriesOffset, err)
	}

	var originalLen int32
	originalOffset := total
	if err := readInt32(r, &originalLen); err != nil {
		return total, corrupt(err, "read original length at offset %d", originalOffset)
	}
	total += 4
	if originalLen < 0 {
		return total, fmt.Errorf("%w: negative original length at offset %d: %d", ErrCorruptArchive, originalOffset, originalLen)
	}
	if want := uint64(symbolCount(int(originalLen))); table.Total() != want {
		return total, fmt.Errorf("%w: frequency total %d does not match original length %d at offset %d",
			ErrCorruptArchive, table.Total(), originalLen, originalOffset)
	}

	var compressedLen int32
	compressedOffset := total
	if err := readInt32(r, &compressedLen); err != nil {
		return total, corrupt(err, "read compressed length at offset %d", compressedOffset)
	}
	total += 4
	if compressedLen < 0 || compressedLen > maxPayloadBytes {
		return total, fmt.Errorf("%w: invalid compressed length at offset %d: %d", ErrCorruptArchive, compressedOffset, compressedLen)
	}
	if want := uint64(symbolCount(int(originalLen))); want > 8*uint64(compressedLen) {
		return total, fmt.Errorf("%w: compressed length %d at offset %d cannot hold %d symbols",
			ErrCorruptArchive, compressedLen, compressedOffset, want)
	}
	if l, ok := r.(lener); ok && int(compressedLen) > l.Len() {
		return total, fmt.Errorf("%w: compressed length %d at offset %d exceeds remaining %d bytes",
			ErrCorruptArchive, compressedLen, compressedOffset, l.Len())
	}

	payloadOffset := total
	payload := make([]byte, compressedLen)
	n, err = io.ReadFull(r, payload)
	total += int64(n)
	if err != nil {
		return total, corrupt(err, "read compressed data at offset %d (%d bytes)", payloadOffset, compressedLen)
	}

	tmp := Archive{Table: table, OriginalLen: int(originalLen), Data: payload}
	if err := validateArchiveStructure(&tmp); err != nil {
		return total, fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}

	*a = tmp
	return total, nil
}

// UnmarshalBinary decodes data, which must hold exactly one archive.
func (a *Archive) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var tmp Archive
	if _, err := tmp.ReadFrom(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes after compressed data", ErrCorruptArchive, r.Len())
	}
	*a = tmp
	return nil
}
