package app

import (
	"context"
	"fmt"
	"sync"

	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/fileops"
	"vidconv/internal/log"
)

// ErrBusy is returned by Convert while another conversion is running.
var ErrBusy = errors.New("a conversion is already running")

// Options configure a Runner.
type Options struct {
	FFmpegPath string // explicit ffmpeg binary, empty to search
	OutputDir  string // empty means <source dir>/dist
}

// Runner orchestrates ffmpeg conversions. At most one runs at a time.
type Runner struct {
	opts Options

	mu       sync.Mutex
	reporter ffmpeg.ProgressReporter
	ff       *ffmpeg.FFmpeg
	cancel   context.CancelFunc
	working  bool
}

// NewRunner creates a runner. reporter may be nil.
func NewRunner(opts Options, reporter ffmpeg.ProgressReporter) *Runner {
	return &Runner{opts: opts, reporter: reporter}
}

// Probe locates and verifies ffmpeg. The located binary is kept for Convert.
func (r *Runner) Probe(ctx context.Context) *ffmpeg.Info {
	info := ffmpeg.Detect(ctx, r.opts.FFmpegPath)
	if ff := info.FFmpeg(); ff != nil {
		r.mu.Lock()
		r.ff = ff
		r.mu.Unlock()
	}
	return info
}

// Plan returns where video would be written for target.
func (r *Runner) Plan(video string, target ffmpeg.Target) (string, error) {
	return fileops.Plan(video, target, r.opts.OutputDir)
}

// Convert converts video to target and returns the output path. Any existing
// file at the output path is replaced. A ctx that is already done fails with
// errors.ErrCancelled before the output is touched.
func (r *Runner) Convert(ctx context.Context, video string, target ffmpeg.Target) (string, error) {
	ff, reporter, ctx, err := r.begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.finish()

	output, err := r.Plan(video, target)
	if err != nil {
		return "", err
	}
	if err := fileops.PrepareOutput(output); err != nil {
		return "", err
	}

	req := ffmpeg.Request{Source: video, Output: output, Target: target}
	if err := ff.Convert(ctx, req, reporter); err != nil {
		return "", err
	}
	return output, nil
}

func (r *Runner) begin(ctx context.Context) (*ffmpeg.FFmpeg, ffmpeg.ProgressReporter, context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.working {
		return nil, nil, nil, ErrBusy
	}
	if ctx.Err() != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", errors.ErrCancelled, context.Cause(ctx))
	}
	if r.ff == nil {
		ff, err := ffmpeg.Locate(r.opts.FFmpegPath)
		if err != nil {
			return nil, nil, nil, err
		}
		r.ff = ff
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.working = true
	return r.ff, r.reporter, ctx, nil
}

func (r *Runner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.working = false
}

// Cancel aborts the running conversion, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		log.Info("cancelling conversion")
		r.cancel()
	}
}

// IsWorking returns true if a conversion is in progress.
func (r *Runner) IsWorking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.working
}
