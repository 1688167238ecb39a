// Package cli provides the vidconv command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/gertd/go-pluralize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// barMax is the progressbar resolution; fractions are scaled onto it.
const barMax = 1000

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	successStyle = color.New(color.FgGreen)
	summaryStyle = color.New(color.FgCyan, color.Bold)
)

// Reporter implements ffmpeg.ProgressReporter for terminal output.
// On a terminal it draws a progressbar; otherwise it prints a line every 10%.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	quiet       bool
	interactive bool

	bar      *progressbar.ProgressBar
	name     string
	status   string
	progress float32
	info     string
	decile   int
}

// NewReporter creates a new CLI progress reporter writing to stderr.
// If quiet is true, only errors are printed.
func NewReporter(quiet bool) *Reporter {
	return &Reporter{
		out:         os.Stderr,
		quiet:       quiet,
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Start begins reporting for the named file.
func (r *Reporter) Start(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = name
	r.status = ""
	r.progress = 0
	r.info = ""
	r.decile = -1
	if r.quiet || !r.interactive {
		return
	}
	r.bar = progressbar.NewOptions(barMax,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowDescriptionAtLineEnd(),
	)
}

// SetStatus updates the status message.
func (r *Reporter) SetStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = text
}

// SetProgress updates the progress fraction and info text.
func (r *Reporter) SetProgress(fraction float32, info string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = fraction
	r.info = info
}

// SetCanCancel is a no-op; the CLI is always cancellable via Ctrl+C.
func (r *Reporter) SetCanCancel(can bool) {}

// Update redraws progress.
func (r *Reporter) Update() {
	if r.quiet {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		if r.status != "" {
			r.bar.Describe(r.name + " | " + r.status)
		}
		_ = r.bar.Set(int(r.progress * barMax))
		return
	}

	decile := int(r.progress * 10)
	if decile <= r.decile {
		return
	}
	r.decile = decile
	fmt.Fprintf(r.out, "%s: %3d%% %s\n", r.name, decile*10, r.status)
}

// Finish ends the current file's progress display.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// PrintError prints an error message.
func (r *Reporter) PrintError(format string, args ...any) {
	errorStyle.Fprint(r.out, "Error: ")
	fmt.Fprintf(r.out, format+"\n", args...)
}

// PrintSuccess prints a success message.
func (r *Reporter) PrintSuccess(format string, args ...any) {
	if r.quiet {
		return
	}
	successStyle.Fprintf(r.out, format+"\n", args...)
}

// PrintSummary prints how many files converted and failed.
func (r *Reporter) PrintSummary(converted, failed int) {
	if r.quiet {
		return
	}
	summaryStyle.Fprintln(r.out, summary(converted, failed))
}

var plural = pluralize.NewClient()

func summary(converted, failed int) string {
	s := fmt.Sprintf("%s converted", plural.Pluralize("file", converted, true))
	if failed > 0 {
		s += fmt.Sprintf(", %s failed", plural.Pluralize("file", failed, true))
	}
	return s
}
