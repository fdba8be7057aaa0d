package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/internal/memory"
	"auto-thumbnail/internal/metrics"
	"auto-thumbnail/internal/workers"
	"auto-thumbnail/thumbnailer"
)

// Batch outcomes, also used as metric labels.
const (
	statusCreated = "created"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

type batchJob struct {
	source string
	output string
}

// batchSummary counts outcomes across workers.
type batchSummary struct {
	created     atomic.Int64
	skipped     atomic.Int64
	unsupported atomic.Int64
	failed      atomic.Int64
}

func (s *batchSummary) record(status string) {
	switch status {
	case statusCreated:
		s.created.Add(1)
	case statusSkipped:
		s.skipped.Add(1)
	default:
		s.failed.Add(1)
	}
	metrics.BatchFilesTotal.WithLabelValues(status).Inc()
}

type batch struct {
	thumbnailer *thumbnailer.Thumbnailer
	monitor     *memory.Monitor
	format      mediatypes.Encoding
	srcDir      string
	dstDir      string
	force       bool
	summary     batchSummary
}

func runBatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("batch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var common commonFlags
	common.register(flags)
	format := flags.String("format", mediatypes.JPEG.String(), "output encoding: JPEG, PNG or WEBP")
	workerCount := flags.Int("workers", 0, "number of workers (0 = automatic)")
	force := flags.Bool("force", false, "recreate thumbnails that are newer than their source")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: thumbnail batch [flags] <source-dir> <output-dir>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitUsage
	}

	enc, err := mediatypes.ParseEncoding(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	t, err := common.newThumbnailer()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	srcDir, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	dstDir, err := filepath.Abs(flags.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "Error: %s is not a directory\n", flags.Arg(0))
		return exitUsage
	}

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	b := &batch{
		thumbnailer: t,
		monitor:     monitor,
		format:      enc,
		srcDir:      srcDir,
		dstDir:      dstDir,
		force:       *force,
	}

	n := *workerCount
	if n <= 0 {
		n = workers.ForCPU(0)
	}

	start := time.Now()
	err = b.run(ctx, n)
	elapsed := time.Since(start).Round(time.Millisecond)

	fmt.Fprintf(stdout, "created %d, skipped %d, unsupported %d, failed %d in %v\n",
		b.summary.created.Load(), b.summary.skipped.Load()-b.summary.unsupported.Load(),
		b.summary.unsupported.Load(), b.summary.failed.Load(), elapsed)

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if b.summary.failed.Load() > 0 {
		return exitFailure
	}
	return exitOK
}

// run walks the source tree and feeds every regular file to n workers.
func (b *batch) run(ctx context.Context, n int) error {
	logging.Info("Batch: %s -> %s (%s, %s, %d workers)",
		b.srcDir, b.dstDir, b.thumbnailer.Size(), b.format, n)

	jobs := make(chan batchJob, n*2)
	walkErr := make(chan error, 1)

	go func() {
		defer close(jobs)
		walkErr <- filepath.WalkDir(b.srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logging.Warn("Batch: cannot read %s: %v", path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(d.Name(), ".") && path != b.srcDir {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path == b.dstDir {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			select {
			case jobs <- batchJob{source: path, output: b.outputPath(path)}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	err := workers.Process(ctx, n, jobs, b.process)

	// Drain so the walker can finish after a cancellation.
	for range jobs {
	}
	if wErr := <-walkErr; wErr != nil && !errors.Is(wErr, context.Canceled) {
		return wErr
	}
	return err
}

// outputPath mirrors source under the output directory. The source's own
// extension is kept so photo.png and photo.jpg do not collide.
func (b *batch) outputPath(source string) string {
	rel, err := filepath.Rel(b.srcDir, source)
	if err != nil {
		rel = filepath.Base(source)
	}
	return filepath.Join(b.dstDir, rel) + b.format.Extension()
}

func (b *batch) process(ctx context.Context, job batchJob) {
	if !b.force && upToDate(job.source, job.output) {
		logging.Debug("Batch: %s is up to date", job.output)
		b.summary.record(statusSkipped)
		return
	}

	if err := b.monitor.Wait(ctx); err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(job.output), 0o755); err != nil {
		logging.Warn("Batch: %v", err)
		b.summary.record(statusFailed)
		return
	}

	err := b.thumbnailer.CreateThumbnail(job.source, job.output)
	switch {
	case err == nil:
		logging.Debug("Batch: created %s", job.output)
		b.summary.record(statusCreated)
	case errors.Is(err, thumbnailer.ErrUnsupported):
		logging.Debug("Batch: skipping %s: %v", job.source, err)
		b.summary.unsupported.Add(1)
		b.summary.record(statusSkipped)
	default:
		logging.Warn("Batch: %v", err)
		b.summary.record(statusFailed)
	}
}

// upToDate reports whether output exists and is at least as new as source.
func upToDate(source, output string) bool {
	out, err := os.Stat(output)
	if err != nil || out.Size() == 0 {
		return false
	}
	src, err := os.Stat(source)
	if err != nil {
		return false
	}
	return !out.ModTime().Before(src.ModTime())
}
