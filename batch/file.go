// Package batch runs huff16 over files: single-file encode/decode,
// directory enumeration and parallel processing of many files.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/seiflotfy/huff16"
)

// Suffix is appended to encoded file names.
const Suffix = ".h16"

// Mode selects the direction of a job.
type Mode int

const (
	Encode Mode = iota
	Decode
)

func (m Mode) String() string {
	switch m {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrMissingFile indicates a decode source that does not exist. Batch runs
// skip such files instead of failing.
var ErrMissingFile = errors.New("missing file")

// Job is one file to process.
type Job struct {
	Mode Mode
	Src  string
	Dst  string
}

// OutputName returns the destination file name for src under mode.
func OutputName(src string, mode Mode) string {
	if mode == Decode {
		return strings.TrimSuffix(src, Suffix)
	}
	return src + Suffix
}

// Discover lists the regular files of dir that mode applies to, sorted by
// name. Outputs go to outDir, or next to the source when outDir is empty.
func Discover(dir, outDir string, mode Mode) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	if outDir == "" {
		outDir = dir
	}

	var jobs []Job
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		encoded := strings.HasSuffix(name, Suffix)
		if (mode == Encode && encoded) || (mode == Decode && (!encoded || name == Suffix)) {
			continue
		}
		jobs = append(jobs, Job{
			Mode: mode,
			Src:  filepath.Join(dir, name),
			Dst:  filepath.Join(outDir, OutputName(name, mode)),
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Src < jobs[j].Src })
	return jobs, nil
}

// readSource loads a job's input. A missing decode source is reported as
// ErrMissingFile; a missing encode source is an ordinary read error.
func readSource(job Job) ([]byte, error) {
	data, err := os.ReadFile(job.Src)
	if err == nil {
		return data, nil
	}
	if job.Mode == Decode && errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, job.Src)
	}
	return nil, fmt.Errorf("read %s: %w", job.Src, err)
}

// writeFile writes data to a temporary file next to path and renames it
// into place, so a failed run never leaves a partial output.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func transform(mode Mode, data []byte, opts []huff16.Option) ([]byte, error) {
	switch mode {
	case Encode:
		a, err := huff16.NewEncoder(opts...).Encode(data)
		if err != nil {
			return nil, err
		}
		return a.MarshalBinary()
	case Decode:
		return huff16.NewDecoder(opts...).Decode(data)
	default:
		return nil, fmt.Errorf("unknown mode %v", mode)
	}
}

// EncodeFile compresses src into dst.
func EncodeFile(src, dst string, opts ...huff16.Option) error {
	_, err := EncodeFileDetailed(src, dst, opts...)
	return err
}

// DecodeFile restores src into dst. A missing src yields ErrMissingFile.
func DecodeFile(src, dst string, opts ...huff16.Option) error {
	return processFile(Job{Mode: Decode, Src: src, Dst: dst}, opts)
}

// Encoded is the outcome of EncodeFileDetailed.
type Encoded struct {
	Input   []byte
	Archive *huff16.Archive
	Codes   *huff16.CodeTable
}

// EncodeFileDetailed is EncodeFile that also returns the input, the archive
// and the code table, so callers can report on the file without encoding
// it again.
func EncodeFileDetailed(src, dst string, opts ...huff16.Option) (Encoded, error) {
	job := Job{Mode: Encode, Src: src, Dst: dst}
	data, err := readSource(job)
	if err != nil {
		return Encoded{}, err
	}
	a, codes, err := huff16.NewEncoder(opts...).EncodeDetailed(data)
	if err != nil {
		return Encoded{}, fmt.Errorf("%s %s: %w", job.Mode, src, err)
	}
	out, err := a.MarshalBinary()
	if err != nil {
		return Encoded{}, fmt.Errorf("%s %s: %w", job.Mode, src, err)
	}
	if err := writeFile(dst, out); err != nil {
		return Encoded{}, err
	}
	return Encoded{Input: data, Archive: a, Codes: codes}, nil
}

func processFile(job Job, opts []huff16.Option) error {
	data, err := readSource(job)
	if err != nil {
		return err
	}
	out, err := transform(job.Mode, data, opts)
	if err != nil {
		return fmt.Errorf("%s %s: %w", job.Mode, job.Src, err)
	}
	return writeFile(job.Dst, out)
}
