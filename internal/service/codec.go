// Package service holds the codec operations behind the HTTP handlers.
package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seiflotfy/huff16"
	"github.com/seiflotfy/huff16/stats"
)

// CodecService runs huff16 operations for the HTTP layer. It is safe for
// concurrent use; every call builds its own encoder or decoder.
type CodecService struct {
	opts   []huff16.Option
	logger *logrus.Logger
}

// NewCodecService creates a service that refuses plain inputs and outputs
// larger than maxBytes (0 = math.MaxInt32) and logs every request to l.
func NewCodecService(maxBytes int, l *logrus.Logger) *CodecService {
	return &CodecService{
		opts:   []huff16.Option{huff16.WithMaxInputBytes(maxBytes)},
		logger: l,
	}
}

// Encode compresses data into a serialized archive.
func (s *CodecService) Encode(data []byte) ([]byte, error) {
	start := time.Now()
	a, err := huff16.NewEncoder(s.opts...).Encode(data)
	if err != nil {
		s.logFailure("encode", len(data), err)
		return nil, err
	}
	out, err := a.MarshalBinary()
	if err != nil {
		s.logFailure("encode", len(data), err)
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"op":      "encode",
		"bytes":   len(data),
		"out":     len(out),
		"elapsed": time.Since(start),
	}).Info("request served")
	return out, nil
}

// Decode restores the bytes of a serialized archive.
func (s *CodecService) Decode(archive []byte) ([]byte, error) {
	start := time.Now()
	out, err := huff16.NewDecoder(s.opts...).Decode(archive)
	if err != nil {
		s.logFailure("decode", len(archive), err)
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"op":      "decode",
		"bytes":   len(archive),
		"out":     len(out),
		"elapsed": time.Since(start),
	}).Info("request served")
	return out, nil
}

// Stats encodes data and reports how well it compresses.
func (s *CodecService) Stats(data []byte) (stats.Report, error) {
	r, err := stats.Analyze(data, s.opts...)
	if err != nil {
		s.logFailure("stats", len(data), err)
		return stats.Report{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"op":    "stats",
		"bytes": len(data),
		"ratio": r.Ratio,
	}).Debug("request served")
	return r, nil
}

// logFailure logs client errors at warn and anything else at error.
func (s *CodecService) logFailure(op string, n int, err error) {
	entry := s.logger.WithFields(logrus.Fields{"op": op, "bytes": n}).WithError(err)
	if errors.Is(err, huff16.ErrEmptyInput) || errors.Is(err, huff16.ErrCorruptArchive) || errors.Is(err, huff16.ErrInputTooLarge) {
		entry.Warn("request rejected")
		return
	}
	entry.Error("request failed")
}
