package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/seiflotfy/huff16"
)

func newTestService(t *testing.T, maxBytes int) (*CodecService, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return NewCodecService(maxBytes, l), hook
}

func TestCodecServiceRoundTrip(t *testing.T) {
	svc, hook := newTestService(t, 0)
	data := []byte("she sells sea shells by the sea shore")

	archive, err := svc.Encode(data)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := svc.Decode(archive)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q want %q", got, data)
	}
	if n := len(hook.AllEntries()); n != 2 {
		t.Fatalf("expected 2 log entries, got %d", n)
	}
	if e := hook.LastEntry(); e.Data["op"] != "decode" || e.Level != logrus.InfoLevel {
		t.Fatalf("unexpected log entry %+v", e)
	}
}

func TestCodecServiceLimit(t *testing.T) {
	svc, hook := newTestService(t, 4)
	if _, err := svc.Encode([]byte("too long")); !errors.Is(err, huff16.ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected warn entry, got %+v", e)
	}

	raw, err := huff16.Encode([]byte("also too long"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Decode(raw); !errors.Is(err, huff16.ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge on decode, got %v", err)
	}
}

func TestCodecServiceStats(t *testing.T) {
	svc, _ := newTestService(t, 0)
	r, err := svc.Stats([]byte("abababababababab"))
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if r.DistinctSymbols != 1 || r.Symbols != 8 {
		t.Fatalf("unexpected report %+v", r)
	}
	if _, err := svc.Stats(nil); !errors.Is(err, huff16.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
