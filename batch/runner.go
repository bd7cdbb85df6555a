package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seiflotfy/huff16"
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Workers      int            // Parallel jobs (0 = runtime.NumCPU())
	CacheEntries int            // Outputs kept for identical inputs (0 = no cache)
	Logger       *logrus.Logger // nil discards logs
	Options      []huff16.Option
}

// Result is the outcome of one job. Skipped marks a missing decode source;
// Err then wraps ErrMissingFile.
type Result struct {
	Job         Job
	InputBytes  int
	OutputBytes int
	Cached      bool
	Skipped     bool
	Elapsed     time.Duration
	Err         error
}

type cacheKey struct {
	mode Mode
	size int
	sum  uint64
}

// Runner processes jobs in parallel. Jobs share nothing but the output
// cache, which is safe for concurrent use.
type Runner struct {
	workers int
	opts    []huff16.Option
	log     *logrus.Logger
	cache   *lru.Cache[cacheKey, []byte]
}

// NewRunner creates a runner from cfg.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	r := &Runner{
		workers: cfg.Workers,
		opts:    cfg.Options,
		log:     cfg.Logger,
	}
	if r.workers <= 0 {
		r.workers = runtime.NumCPU()
	}
	if r.log == nil {
		r.log = logrus.New()
		r.log.SetOutput(io.Discard)
	}
	if cfg.CacheEntries > 0 {
		c, err := lru.New[cacheKey, []byte](cfg.CacheEntries)
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
		r.cache = c
	}
	return r, nil
}

// Run processes all jobs and returns their results in job order. A failing
// job never stops the others; only cancellation of ctx prevents jobs that
// have not started yet from running.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			results[i] = r.runJob(job)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) runJob(job Job) (res Result) {
	start := time.Now()
	res.Job = job
	entry := r.log.WithFields(logrus.Fields{"file": job.Src, "mode": job.Mode.String()})

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("%s %s: panic: %v", job.Mode, job.Src, p)
		}
		res.Elapsed = time.Since(start)
		switch {
		case res.Skipped:
			entry.WithError(res.Err).Warn("skipping file")
		case res.Err != nil:
			entry.WithError(res.Err).Error("failed")
		default:
			entry.WithFields(logrus.Fields{
				"bytes":   res.InputBytes,
				"out":     res.OutputBytes,
				"cached":  res.Cached,
				"elapsed": res.Elapsed,
			}).Info("done")
		}
	}()

	data, err := readSource(job)
	if err != nil {
		res.Err = err
		res.Skipped = errors.Is(err, ErrMissingFile)
		return res
	}
	res.InputBytes = len(data)

	out, cached, err := r.output(job.Mode, data)
	if err != nil {
		res.Err = fmt.Errorf("%s %s: %w", job.Mode, job.Src, err)
		return res
	}
	if err := writeFile(job.Dst, out); err != nil {
		res.Err = fmt.Errorf("write %s: %w", job.Dst, err)
		return res
	}
	res.OutputBytes = len(out)
	res.Cached = cached
	return res
}

// output transforms data, consulting the cache when one is configured.
// Cached slices are shared and must not be modified.
func (r *Runner) output(mode Mode, data []byte) ([]byte, bool, error) {
	if r.cache == nil {
		out, err := transform(mode, data, r.opts)
		return out, false, err
	}

	key := cacheKey{mode: mode, size: len(data), sum: xxhash.Sum64(data)}
	if out, ok := r.cache.Get(key); ok {
		return out, true, nil
	}
	out, err := transform(mode, data, r.opts)
	if err != nil {
		return nil, false, err
	}
	r.cache.Add(key, out)
	return out, false, nil
}

// Summary aggregates batch results.
type Summary struct {
	Files       int
	Failed      int
	Skipped     int
	Cached      int
	InputBytes  int64
	OutputBytes int64
}

// Summarize totals results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, res := range results {
		s.Files++
		switch {
		case res.Skipped:
			s.Skipped++
		case res.Err != nil:
			s.Failed++
		default:
			if res.Cached {
				s.Cached++
			}
			s.InputBytes += int64(res.InputBytes)
			s.OutputBytes += int64(res.OutputBytes)
		}
	}
	return s
}
