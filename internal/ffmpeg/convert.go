package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"vidconv/internal/errors"
	"vidconv/internal/log"
	"vidconv/internal/util"
)

// ProgressReporter receives conversion progress.
// Implementations must be thread-safe as methods are called from the conversion goroutine.
type ProgressReporter interface {
	SetStatus(text string)                     // Update status message (e.g., "Converting to GIF...")
	SetProgress(fraction float32, info string) // Update progress bar (0.0-1.0) and info text
	SetCanCancel(can bool)                     // Enable/disable cancel button
	Update()                                   // Trigger UI refresh
}

type nopReporter struct{}

func (nopReporter) SetStatus(string)            {}
func (nopReporter) SetProgress(float32, string) {}
func (nopReporter) SetCanCancel(bool)           {}
func (nopReporter) Update()                     {}

// Request describes one conversion.
type Request struct {
	Source string
	Output string
	Target Target
}

const (
	// stderrTailLines bounds how much ffmpeg output is kept for error reporting.
	stderrTailLines = 20

	// waitDelay bounds how long Wait blocks on stderr after the process is killed.
	waitDelay = 2 * time.Second
)

var timeRegex = regexp.MustCompile(`time=\s*(\S+)`)

// Duration returns the container duration reported by ffprobe.
func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	if f.ProbePath == "" {
		return 0, fmt.Errorf("ffprobe not available")
	}

	cmd := exec.CommandContext(ctx, f.ProbePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(stderr.String()))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse duration")
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Convert runs ffmpeg for req and blocks until it exits.
// Cancelling ctx kills the process and returns an error matching errors.ErrCancelled.
// A partially written output is removed on failure.
func (f *FFmpeg) Convert(ctx context.Context, req Request, reporter ProgressReporter) error {
	args, err := Args(req.Source, req.Output, req.Target)
	if err != nil {
		return err
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	total, err := f.Duration(ctx, req.Source)
	if err != nil {
		log.Debug("duration unknown, progress will be indeterminate",
			log.String("source", req.Source), log.Err(err))
		total = 0
	}

	reporter.SetStatus("Converting to " + req.Target.Label() + "...")
	reporter.SetProgress(0, "")
	reporter.SetCanCancel(true)
	reporter.Update()

	cmd := exec.CommandContext(ctx, f.Path, args...)
	var stdout bytes.Buffer
	progress := newProgressWriter(total, reporter)
	cmd.Stdout = &stdout
	cmd.Stderr = progress
	cmd.WaitDelay = waitDelay

	log.Info("running ffmpeg", log.String("path", f.Path), log.Strings("args", args))
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", errors.ErrCancelled, req.Source)
		}
		return errors.NewConvertError(req.Source, -1, "", err)
	}

	waitErr := cmd.Wait()
	tail := progress.Tail()
	reporter.SetCanCancel(false)

	if ctx.Err() != nil {
		removePartial(req.Output)
		log.Info("ffmpeg cancelled", log.String("source", req.Source))
		return fmt.Errorf("%w: %s", errors.ErrCancelled, req.Source)
	}

	if waitErr != nil {
		removePartial(req.Output)
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		log.Error("ffmpeg failed",
			log.String("source", req.Source), log.Int("exit", exitCode), log.String("stderr", tail))
		return errors.NewConvertError(req.Source, exitCode, tail, waitErr)
	}

	log.Debug("ffmpeg stdout", log.String("stdout", stdout.String()))
	log.Info("ffmpeg finished",
		log.String("output", req.Output), log.Duration("elapsed", time.Since(progress.start)))

	reporter.SetProgress(1, "100%")
	reporter.SetStatus("Done")
	reporter.Update()
	return nil
}

// progressWriter receives ffmpeg's stderr, reports progress from "time="
// fields and keeps the last stderrTailLines lines.
type progressWriter struct {
	mu       sync.Mutex
	total    time.Duration
	start    time.Time
	reporter ProgressReporter
	pending  []byte
	tail     []string
}

func newProgressWriter(total time.Duration, reporter ProgressReporter) *progressWriter {
	return &progressWriter{total: total, start: time.Now(), reporter: reporter}
}

// Write splits on '\n' or '\r'; ffmpeg rewrites its status line with '\r'.
func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexAny(w.pending, "\r\n")
		if i < 0 {
			break
		}
		w.line(string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Tail flushes any unterminated line and returns the kept stderr lines.
func (w *progressWriter) Tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) > 0 {
		w.line(string(w.pending))
		w.pending = nil
	}
	return strings.Join(w.tail, "\n")
}

func (w *progressWriter) line(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.tail = append(w.tail, line)
	if len(w.tail) > stderrTailLines {
		w.tail = w.tail[1:]
	}

	done, ok := parseProgressLine(line)
	if !ok {
		return
	}
	if w.total > 0 {
		progress, speed, eta := util.Statify(done, w.total, w.start)
		w.reporter.SetProgress(progress, fmt.Sprintf("%.0f%%", progress*100))
		w.reporter.SetStatus(fmt.Sprintf("Converting at %.2fx (ETA: %s)", speed, eta))
	} else {
		w.reporter.SetStatus("Converted " + util.Timeify(int(done.Seconds())))
	}
	w.reporter.Update()
}

// parseProgressLine extracts the processed media time from an ffmpeg status line.
func parseProgressLine(line string) (time.Duration, bool) {
	m := timeRegex.FindStringSubmatch(line)
	if len(m) < 2 {
		return 0, false
	}
	d, err := util.ParseClock(m[1])
	if err != nil {
		return 0, false
	}
	return d, true
}

func removePartial(path string) {
	if stat, err := os.Stat(path); err == nil && stat.Mode().IsRegular() {
		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove partial output", log.String("path", path), log.Err(err))
		}
	}
}
