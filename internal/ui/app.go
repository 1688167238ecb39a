// Package ui provides the vidconv drag-and-drop window using Fyne.
//
// The window shows one view per converter phase:
//
//   - Select file: a drop zone
//   - Select target: MP4 and GIF buttons for the dropped video
//   - Generating: progress bar with status and a Cancel button
//   - Complete: the output path
//   - Error: ffmpeg missing (final) or conversion failure details
//
// All state lives in app.Machine. The UI only forwards events to it and
// re-renders the current state. Commands returned by the machine run in
// goroutines and their results are posted back with fyne.Do.
package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"vidconv/internal/app"
	"vidconv/internal/config"
	"vidconv/internal/ffmpeg"
)

// Title is the main window title.
const Title = "Video Converter"

// Window size
const (
	windowWidth  = 600
	windowHeight = 400
)

// App represents the main UI application.
type App struct {
	fyneApp fyne.App
	Window  fyne.Window
	Version string
	Config  *config.Config

	Machine  *app.Machine
	Runner   *app.Runner
	progress *app.BoundProgress

	ctx  context.Context
	stop context.CancelFunc

	// cancelConversion cancels the conversion issued by the last Submit.
	cancelConversion context.CancelFunc
	cancelling       bool

	// spawn runs background work and post returns to the UI goroutine.
	// Tests replace both to run synchronously.
	spawn func(func())
	post  func(func())

	// Widgets of the current view, nil when not shown
	heading       *widget.Label
	targetButtons map[ffmpeg.Target]*widget.Button
	cancelButton  *widget.Button
	overwrite     *overwritePrompt
}

// NewApp creates the main window on fyneApp. cfg may be nil for defaults.
func NewApp(fyneApp fyne.App, version string, cfg *config.Config) *App {
	if cfg == nil {
		cfg = &config.Config{}
	}

	a := &App{
		fyneApp:  fyneApp,
		Version:  version,
		Config:   cfg,
		progress: app.NewBoundProgress(),
		spawn:    func(fn func()) { go fn() },
		post:     fyne.Do,
	}
	a.ctx, a.stop = context.WithCancel(context.Background())

	a.Runner = app.NewRunner(app.Options{
		FFmpegPath: cfg.FFmpegPath,
		OutputDir:  cfg.OutputDir,
	}, a.progress.Reporter(func(fn func()) { a.post(fn) }))
	a.Machine = app.NewMachine(a.Runner)
	a.progress.CanCancel.AddListener(binding.NewDataListener(a.syncCancelButton))

	fyneApp.Settings().SetTheme(NewTheme())

	a.Window = fyneApp.NewWindow(Title)
	a.Window.Resize(fyne.NewSize(windowWidth, windowHeight))
	a.Window.CenterOnScreen()
	a.Window.SetMaster()
	a.Window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		a.onDropped(uris)
	})
	a.Window.SetCloseIntercept(a.onClose)

	a.render()
	return a
}

// Run starts the ffmpeg probe, shows the window and blocks until it is closed.
func (a *App) Run() {
	a.start()
	a.Window.ShowAndRun()
}

func (a *App) start() {
	if cmd := a.Machine.Init(); cmd != nil {
		a.runCommand(a.ctx, cmd)
	}
}

// onClose cancels a running conversion before closing the window.
func (a *App) onClose() {
	a.releaseConversion()
	a.Runner.Cancel()
	a.stop()
	a.Window.SetCloseIntercept(nil)
	a.Window.Close()
}
