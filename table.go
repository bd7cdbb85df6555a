package huff16

import (
	"fmt"
	"math"
	"sort"
)

const (
	maxSymbols = 1 << 16       // maxSymbols is the size of the 16-bit symbol alphabet.
	maxCount   = math.MaxInt32 // maxCount is the largest frequency the archive can record.
)

// Symbol is a 16-bit alphabet element built from two consecutive input bytes.
type Symbol uint16

// pairSymbol composes the symbol starting at data[i]. A missing second byte
// is replaced by a zero filler.
func pairSymbol(data []byte, i int) Symbol {
	if i+1 < len(data) {
		return Symbol(data[i])<<8 | Symbol(data[i+1])
	}
	return Symbol(data[i]) << 8
}

// symbolCount returns the number of 2-byte blocks in n input bytes.
func symbolCount(n int) int {
	return n/2 + n%2
}

// Entry is one (symbol, frequency) pair of a FrequencyTable.
type Entry struct {
	Symbol Symbol
	Count  uint32
}

// FrequencyTable maps symbols to occurrence counts. It is immutable after
// construction; entries are kept in ascending symbol order, which is the
// leaf insertion order used by BuildTree.
type FrequencyTable struct {
	entries []Entry
	total   uint64
}

// CountSymbols scans data two bytes at a time and returns the symbol
// frequencies. Empty input yields an empty table.
func CountSymbols(data []byte) *FrequencyTable {
	if len(data) == 0 {
		return &FrequencyTable{}
	}

	counts := make(map[Symbol]uint32, 1024)
	for i := 0; i < len(data); i += 2 {
		counts[pairSymbol(data, i)]++
	}

	entries := make([]Entry, 0, len(counts))
	for sym, c := range counts {
		entries = append(entries, Entry{Symbol: sym, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})
	return &FrequencyTable{entries: entries, total: uint64(symbolCount(len(data)))}
}

// NewFrequencyTable builds a table from explicit entries, in any order.
// Duplicate symbols and counts beyond the archive's int32 range are rejected.
func NewFrequencyTable(entries []Entry) (*FrequencyTable, error) {
	if len(entries) > maxSymbols {
		return nil, fmt.Errorf("too many symbols: %d", len(entries))
	}

	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Symbol < sorted[j].Symbol
	})

	var total uint64
	for i, e := range sorted {
		if i > 0 && sorted[i-1].Symbol == e.Symbol {
			return nil, fmt.Errorf("duplicate symbol 0x%04x", e.Symbol)
		}
		if e.Count > maxCount {
			return nil, fmt.Errorf("count for symbol 0x%04x out of range: %d", e.Symbol, e.Count)
		}
		total += uint64(e.Count)
	}
	return &FrequencyTable{entries: sorted, total: total}, nil
}

// Len returns the number of distinct symbols.
func (t *FrequencyTable) Len() int {
	return len(t.entries)
}

// Total returns the sum of all counts.
func (t *FrequencyTable) Total() uint64 {
	return t.total
}

// Count returns the frequency of sym, or 0 if it never occurs.
func (t *FrequencyTable) Count(sym Symbol) uint32 {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Symbol >= sym
	})
	if i < len(t.entries) && t.entries[i].Symbol == sym {
		return t.entries[i].Count
	}
	return 0
}

// Entries returns a copy of the entries in ascending symbol order.
func (t *FrequencyTable) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Each calls fn for every entry in ascending symbol order.
func (t *FrequencyTable) Each(fn func(Entry)) {
	for _, e := range t.entries {
		fn(e)
	}
}
