// Package stats computes diagnostic metrics for huff16 archives: the
// entropy of the symbol distribution, the achieved code length and the
// compression ratio, next to a zstd baseline for reference.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seiflotfy/huff16"
)

// Report summarizes how one input compresses.
type Report struct {
	OriginalBytes   int     `json:"original_bytes"`
	ArchiveBytes    int     `json:"archive_bytes"`
	PayloadBytes    int     `json:"payload_bytes"`
	Symbols         uint64  `json:"symbols"`
	DistinctSymbols int     `json:"distinct_symbols"`
	Entropy         float64 `json:"entropy_bits_per_symbol"`
	AvgCodeLen      float64 `json:"avg_code_bits_per_symbol"`
	Ratio           float64 `json:"ratio"`
	ZstdBytes       int     `json:"zstd_bytes"`
	ZstdRatio       float64 `json:"zstd_ratio"`
}

// Entropy returns the Shannon entropy of t in bits per symbol.
func Entropy(t *huff16.FrequencyTable) float64 {
	total := float64(t.Total())
	if total == 0 {
		return 0
	}
	h := 0.0
	t.Each(func(e huff16.Entry) {
		if e.Count == 0 {
			return
		}
		p := float64(e.Count) / total
		h -= p * math.Log2(p)
	})
	return h
}

// AverageCodeLength returns the frequency-weighted mean code length in bits.
func AverageCodeLength(t *huff16.FrequencyTable, codes *huff16.CodeTable) float64 {
	total := float64(t.Total())
	if total == 0 {
		return 0
	}
	var bits float64
	t.Each(func(e huff16.Entry) {
		if c, ok := codes.Lookup(e.Symbol); ok {
			bits += float64(e.Count) * float64(c.Len)
		}
	})
	return bits / total
}

// Analyze encodes data and measures the result.
func Analyze(data []byte, opts ...huff16.Option) (Report, error) {
	archive, codes, err := huff16.NewEncoder(opts...).EncodeDetailed(data)
	if err != nil {
		return Report{}, err
	}
	return Measure(data, archive, codes)
}

// Measure builds the report for an archive that was already encoded from
// data with codes.
func Measure(data []byte, archive *huff16.Archive, codes *huff16.CodeTable) (Report, error) {
	baseline, err := zstdSize(data)
	if err != nil {
		return Report{}, fmt.Errorf("zstd baseline: %w", err)
	}

	r := Report{
		OriginalBytes:   len(data),
		ArchiveBytes:    archive.SpaceUsed(),
		PayloadBytes:    len(archive.Data),
		Symbols:         archive.Table.Total(),
		DistinctSymbols: archive.Table.Len(),
		Entropy:         Entropy(archive.Table),
		AvgCodeLen:      AverageCodeLength(archive.Table, codes),
		ZstdBytes:       baseline,
	}
	r.Ratio = ratio(r.OriginalBytes, r.ArchiveBytes)
	r.ZstdRatio = ratio(r.OriginalBytes, r.ZstdBytes)
	return r, nil
}

func ratio(original, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(original) / float64(compressed)
}

func zstdSize(data []byte) (int, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return len(enc.EncodeAll(data, nil)), nil
}

// NewPrinter returns the printer used for reports.
func NewPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// Format renders the report as indented lines with grouped digits.
func (r Report) Format(p *message.Printer) string {
	if p == nil {
		p = NewPrinter()
	}
	var sb strings.Builder
	sb.WriteString(p.Sprintf("  original:   %d bytes\n", r.OriginalBytes))
	sb.WriteString(p.Sprintf("  archive:    %d bytes (payload %d)\n", r.ArchiveBytes, r.PayloadBytes))
	sb.WriteString(p.Sprintf("  symbols:    %d (%d distinct)\n", r.Symbols, r.DistinctSymbols))
	sb.WriteString(p.Sprintf("  entropy:    %.4f bits/symbol\n", r.Entropy))
	sb.WriteString(p.Sprintf("  avg code:   %.4f bits/symbol\n", r.AvgCodeLen))
	sb.WriteString(p.Sprintf("  ratio:      %.3fx\n", r.Ratio))
	sb.WriteString(p.Sprintf("  zstd:       %d bytes (%.3fx)\n", r.ZstdBytes, r.ZstdRatio))
	return sb.String()
}
