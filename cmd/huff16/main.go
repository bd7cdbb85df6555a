// Command huff16 compresses and restores files with the huff16 codec.
//
//	huff16 [-o out] [-stats] file        encode file into file.h16
//	huff16 -d [-o out] file.h16          decode file.h16 into file
//	huff16 [-d] -dir in [-out dir] [-j n] [-cache n]
//	                                     process every eligible file of a directory
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/seiflotfy/huff16"
	"github.com/seiflotfy/huff16/batch"
	"github.com/seiflotfy/huff16/stats"
)

type options struct {
	decode  bool
	output  string
	dir     string
	outDir  string
	workers int
	cache   int
	stats   bool
	max     int
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("huff16", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.BoolVar(&o.decode, "d", false, "decode instead of encode")
	fs.StringVar(&o.output, "o", "", "output file (single-file mode)")
	fs.StringVar(&o.dir, "dir", "", "process every eligible file in this directory")
	fs.StringVar(&o.outDir, "out", "", "output directory for -dir (default: next to the inputs)")
	fs.IntVar(&o.workers, "j", 0, "parallel jobs for -dir (0 = number of CPUs)")
	fs.IntVar(&o.cache, "cache", 64, "outputs cached for identical inputs in -dir mode (0 = off)")
	fs.BoolVar(&o.stats, "stats", false, "print a compression report (encode only)")
	fs.IntVar(&o.max, "max", 0, "largest plain input or output in bytes (0 = no limit)")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	mode := batch.Encode
	if o.decode {
		mode = batch.Decode
	}
	codecOpts := []huff16.Option{huff16.WithMaxInputBytes(o.max)}

	if o.dir != "" {
		if fs.NArg() != 0 || o.output != "" {
			fmt.Fprintln(stderr, "huff16: -dir takes no file arguments and no -o")
			return 2
		}
		return runDir(ctx, o, mode, codecOpts, log, stdout)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	return runFile(fs.Arg(0), o, mode, codecOpts, log, stdout)
}

func runFile(src string, o options, mode batch.Mode, codecOpts []huff16.Option, log *logrus.Logger, stdout io.Writer) int {
	dst := o.output
	if dst == "" {
		dst = batch.OutputName(src, mode)
	}
	if mode == batch.Decode && dst == src {
		log.WithField("file", src).Errorf("cannot derive output name, use -o")
		return 2
	}

	var (
		enc batch.Encoded
		err error
	)
	if mode == batch.Decode {
		err = batch.DecodeFile(src, dst, codecOpts...)
	} else {
		enc, err = batch.EncodeFileDetailed(src, dst, codecOpts...)
	}
	if errors.Is(err, batch.ErrMissingFile) {
		log.WithField("file", src).Warn("file not found, nothing to decode")
		return 0
	}
	if err != nil {
		log.WithError(err).Error("failed")
		return 1
	}
	log.WithFields(logrus.Fields{"file": src, "out": dst, "mode": mode.String()}).Debug("done")

	if o.stats && mode == batch.Encode {
		r, err := stats.Measure(enc.Input, enc.Archive, enc.Codes)
		if err != nil {
			log.WithError(err).Error("stats")
			return 1
		}
		fmt.Fprintf(stdout, "%s:\n%s", src, r.Format(stats.NewPrinter()))
	}
	return 0
}

func runDir(ctx context.Context, o options, mode batch.Mode, codecOpts []huff16.Option, log *logrus.Logger, stdout io.Writer) int {
	jobs, err := batch.Discover(o.dir, o.outDir, mode)
	if err != nil {
		log.WithError(err).Error("discover")
		return 1
	}
	runner, err := batch.NewRunner(batch.RunnerConfig{
		Workers:      o.workers,
		CacheEntries: o.cache,
		Logger:       log,
		Options:      codecOpts,
	})
	if err != nil {
		log.WithError(err).Error("runner")
		return 1
	}

	s := batch.Summarize(runner.Run(ctx, jobs))
	p := stats.NewPrinter()
	p.Fprintf(stdout, "%d files: %d failed, %d skipped, %d cached, %d -> %d bytes\n",
		s.Files, s.Failed, s.Skipped, s.Cached, s.InputBytes, s.OutputBytes)
	if s.Failed > 0 {
		return 1
	}
	return 0
}
