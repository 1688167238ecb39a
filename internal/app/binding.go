package app

import (
	"sync"

	"fyne.io/fyne/v2/data/binding"
)

// BoundProgress provides Fyne data bindings for the conversion progress view.
type BoundProgress struct {
	// Progress bar value (0.0 to 1.0)
	Progress binding.Float

	// Progress info text (e.g., "50%")
	ProgressInfo binding.String

	// Status text (e.g., "Converting at 2.50x (ETA: 00:00:12)")
	Status binding.String

	CanCancel binding.Bool
}

// NewBoundProgress creates a new BoundProgress with default values.
func NewBoundProgress() *BoundProgress {
	b := &BoundProgress{
		Progress:     binding.NewFloat(),
		ProgressInfo: binding.NewString(),
		Status:       binding.NewString(),
		CanCancel:    binding.NewBool(),
	}
	b.Reset()
	return b
}

// SetProgress updates the progress binding.
func (b *BoundProgress) SetProgress(fraction float64) {
	_ = b.Progress.Set(fraction)
}

// SetProgressInfo updates the progress info binding.
func (b *BoundProgress) SetProgressInfo(info string) {
	_ = b.ProgressInfo.Set(info)
}

// SetStatus updates the status binding.
func (b *BoundProgress) SetStatus(text string) {
	_ = b.Status.Set(text)
}

// SetCanCancel updates the can cancel binding.
func (b *BoundProgress) SetCanCancel(can bool) {
	_ = b.CanCancel.Set(can)
}

// Reset resets all bindings to default values.
func (b *BoundProgress) Reset() {
	_ = b.Progress.Set(0)
	_ = b.ProgressInfo.Set("")
	_ = b.Status.Set("Converting...")
	_ = b.CanCancel.Set(false)
}

// Reporter returns a UIReporter that writes into the bindings. Status and
// progress are held until Update and only the latest values are applied, so
// each ffmpeg status line costs one hop through post (fyne.Do in the GUI).
// CanCancel is applied immediately. A nil post applies updates directly.
func (b *BoundProgress) Reporter(post func(func())) *UIReporter {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	var (
		mu      sync.Mutex
		pending progressUpdate
	)
	return NewUIReporter(
		func(text string) {
			mu.Lock()
			pending.status, pending.hasStatus = text, true
			mu.Unlock()
		},
		func(fraction float32, info string) {
			mu.Lock()
			pending.fraction, pending.info, pending.hasProgress = fraction, info, true
			mu.Unlock()
		},
		func(can bool) { post(func() { b.SetCanCancel(can) }) },
		func() {
			mu.Lock()
			next := pending
			pending = progressUpdate{}
			mu.Unlock()
			if next.hasStatus || next.hasProgress {
				post(func() { next.apply(b) })
			}
		},
	)
}

// progressUpdate holds the values reported since the last Update.
type progressUpdate struct {
	status      string
	hasStatus   bool
	fraction    float32
	info        string
	hasProgress bool
}

func (u progressUpdate) apply(b *BoundProgress) {
	if u.hasProgress {
		b.SetProgress(float64(u.fraction))
		b.SetProgressInfo(u.info)
	}
	if u.hasStatus {
		b.SetStatus(u.status)
	}
}
