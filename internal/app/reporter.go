package app

import (
	"vidconv/internal/ffmpeg"
)

// Ensure UIReporter implements ffmpeg.ProgressReporter
var _ ffmpeg.ProgressReporter = (*UIReporter)(nil)

// UIReporter bridges a conversion with the UI through callbacks.
// Callbacks run on the conversion goroutine; nil callbacks are skipped.
type UIReporter struct {
	OnStatus    func(text string)
	OnProgress  func(fraction float32, info string)
	OnCanCancel func(can bool)
	OnUpdate    func()
}

// NewUIReporter creates a new UI reporter with the given callbacks.
func NewUIReporter(
	onStatus func(string),
	onProgress func(float32, string),
	onCanCancel func(bool),
	onUpdate func(),
) *UIReporter {
	return &UIReporter{
		OnStatus:    onStatus,
		OnProgress:  onProgress,
		OnCanCancel: onCanCancel,
		OnUpdate:    onUpdate,
	}
}

// SetStatus implements ffmpeg.ProgressReporter.
func (r *UIReporter) SetStatus(text string) {
	if r.OnStatus != nil {
		r.OnStatus(text)
	}
}

// SetProgress implements ffmpeg.ProgressReporter. The fraction is clamped to
// [0, 1]; ffmpeg can report a time past the probed duration.
func (r *UIReporter) SetProgress(fraction float32, info string) {
	if r.OnProgress == nil {
		return
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	r.OnProgress(fraction, info)
}

// SetCanCancel implements ffmpeg.ProgressReporter.
func (r *UIReporter) SetCanCancel(can bool) {
	if r.OnCanCancel != nil {
		r.OnCanCancel(can)
	}
}

// Update implements ffmpeg.ProgressReporter.
func (r *UIReporter) Update() {
	if r.OnUpdate != nil {
		r.OnUpdate()
	}
}
