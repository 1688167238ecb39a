package ui

import (
	"context"

	"fyne.io/fyne/v2/dialog"

	"vidconv/internal/app"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/fileops"
	"vidconv/internal/log"
)

// dispatch feeds msg to the machine, re-renders, and starts any follow-up command.
// It must be called on the UI goroutine.
func (a *App) dispatch(msg app.Message) {
	before := a.Machine.State().Phase

	cmd, err := a.Machine.Handle(msg)
	if err != nil {
		log.Warn("message rejected", log.Err(err))
		dialog.ShowError(err, a.Window)
		return
	}

	ctx := a.ctx
	state := a.Machine.State()
	switch {
	case state.Phase == app.PhaseGenerating && before != app.PhaseGenerating:
		// The conversion can be cancelled from the moment it is issued,
		// even before the background goroutine reaches ffmpeg.
		ctx, a.cancelConversion = context.WithCancel(a.ctx)
		a.cancelling = false
		a.progress.Reset()
		a.progress.SetStatus("Converting to " + state.Target.Label() + "...")
		a.progress.SetCanCancel(true)
	case state.Phase != app.PhaseGenerating && before == app.PhaseGenerating:
		a.releaseConversion()
	}
	a.render()

	if cmd != nil {
		a.runCommand(ctx, cmd)
	}
}

// runCommand runs cmd in the background and dispatches its result on the UI goroutine.
func (a *App) runCommand(ctx context.Context, cmd app.Command) {
	a.spawn(func() {
		msg := cmd(ctx)
		a.post(func() { a.dispatch(msg) })
	})
}

func (a *App) releaseConversion() {
	if a.cancelConversion != nil {
		a.cancelConversion()
		a.cancelConversion = nil
	}
}

// onTargetSelected submits target, asking first when the output would be replaced
// and confirm_overwrite is set.
func (a *App) onTargetSelected(target ffmpeg.Target) {
	state := a.Machine.State()
	if state.Phase != app.PhaseSelectTarget {
		return
	}

	if a.Config.ConfirmOverwrite {
		if output, err := a.Runner.Plan(state.Video, target); err == nil && fileops.Exists(output) {
			video := state.Video
			a.confirmOverwrite(output, func() {
				// The answer only covers the video it was asked about.
				if s := a.Machine.State(); s.Phase != app.PhaseSelectTarget || s.Video != video {
					log.Debug("overwrite answer dropped, selection changed", log.String("asked", video))
					return
				}
				a.dispatch(app.Submit{Target: target})
			})
			return
		}
	}
	a.dispatch(app.Submit{Target: target})
}

// onCancel aborts the running conversion. The machine returns to target
// selection once ffmpeg has exited.
func (a *App) onCancel() {
	a.cancelling = true
	a.syncCancelButton()
	a.progress.SetStatus("Cancelling...")
	if a.cancelConversion != nil {
		a.cancelConversion()
	}
	a.Runner.Cancel()
}

// syncCancelButton enables Cancel while the conversion reports it can be
// cancelled and no cancel is already under way.
func (a *App) syncCancelButton() {
	if a.cancelButton == nil {
		return
	}
	if can, _ := a.progress.CanCancel.Get(); can && !a.cancelling {
		a.cancelButton.Enable()
	} else {
		a.cancelButton.Disable()
	}
}
