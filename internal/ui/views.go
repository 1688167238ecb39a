package ui

import (
	"fmt"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"vidconv/internal/app"
	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/log"
)

// render replaces the window content with the view for the current state.
func (a *App) render() {
	a.heading = nil
	a.targetButtons = nil
	a.cancelButton = nil

	state := a.Machine.State()
	var view fyne.CanvasObject
	switch state.Phase {
	case app.PhaseSelectFile:
		view = a.selectFileView()
	case app.PhaseSelectTarget:
		view = a.selectTargetView(state)
	case app.PhaseGenerating:
		view = a.generatingView(state)
	case app.PhaseComplete:
		view = a.completeView(state)
	case app.PhaseError:
		view = a.errorView(state)
	}
	a.Window.SetContent(container.NewPadded(view))
}

func (a *App) newHeading(text string) *widget.Label {
	a.heading = widget.NewLabelWithStyle(text, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.heading.Wrapping = fyne.TextWrapWord
	return a.heading
}

func hint(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.Alignment = fyne.TextAlignCenter
	l.Importance = widget.LowImportance
	l.Wrapping = fyne.TextWrapWord
	return l
}

// column stacks objects at full width, centered vertically.
func column(objects ...fyne.CanvasObject) fyne.CanvasObject {
	items := make([]fyne.CanvasObject, 0, len(objects)+2)
	items = append(items, layout.NewSpacer())
	items = append(items, objects...)
	items = append(items, layout.NewSpacer())
	return container.NewVBox(items...)
}

func (a *App) selectFileView() fyne.CanvasObject {
	return container.NewStack(NewDropZone(), column(
		widget.NewIcon(theme.FileVideoIcon()),
		a.newHeading("Drop a video file here"),
		hint("It can be converted to MP4 or GIF"),
	))
}

func (a *App) selectTargetView(state app.State) fyne.CanvasObject {
	a.targetButtons = make(map[ffmpeg.Target]*widget.Button, len(ffmpeg.Targets))
	buttons := container.NewHBox()
	for _, target := range ffmpeg.Targets {
		btn := widget.NewButton(target.Label(), func() { a.onTargetSelected(target) })
		btn.Importance = widget.HighImportance
		a.targetButtons[target] = btn
		buttons.Add(btn)
	}

	objects := []fyne.CanvasObject{
		a.newHeading(fmt.Sprintf("Convert %s to:", state.VideoName())),
		container.NewCenter(buttons),
	}
	if dir := a.outputDirHint(state.Video); dir != "" {
		objects = append(objects, hint("Output folder: "+dir))
	}
	objects = append(objects, hint("Drop another file to change the selection"))
	return column(objects...)
}

func (a *App) outputDirHint(video string) string {
	output, err := a.Runner.Plan(video, ffmpeg.TargetMP4)
	if err != nil {
		return ""
	}
	return filepath.Dir(output)
}

func (a *App) generatingView(state app.State) fyne.CanvasObject {
	bar := widget.NewProgressBarWithData(a.progress.Progress)
	bar.Min = 0
	bar.Max = 1

	status := widget.NewLabelWithData(a.progress.Status)
	status.Alignment = fyne.TextAlignCenter
	status.Truncation = fyne.TextTruncateEllipsis

	info := widget.NewLabelWithData(a.progress.ProgressInfo)
	info.Alignment = fyne.TextAlignCenter
	info.Importance = widget.LowImportance

	a.cancelButton = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), a.onCancel)
	a.syncCancelButton()

	return column(
		a.newHeading("Converting..."),
		hint(fmt.Sprintf("%s to %s", state.VideoName(), state.Target.Label())),
		bar,
		info,
		status,
		container.NewCenter(a.cancelButton),
	)
}

func (a *App) completeView(state app.State) fyne.CanvasObject {
	path := widget.NewLabel(state.Output)
	path.Alignment = fyne.TextAlignCenter
	path.Wrapping = fyne.TextWrapBreak
	path.Selectable = true

	open := widget.NewButtonWithIcon("Open folder", theme.FolderOpenIcon(), func() {
		u := &url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Dir(state.Output))}
		if err := a.fyneApp.OpenURL(u); err != nil {
			log.Warn("failed to open output folder", log.Err(err))
		}
	})

	a.newHeading("Conversion complete").Importance = widget.SuccessImportance
	return column(
		widget.NewIcon(theme.ConfirmIcon()),
		a.heading,
		path,
		container.NewCenter(open),
		hint("Drop another file to convert it"),
	)
}

func (a *App) errorView(state app.State) fyne.CanvasObject {
	if state.Reason == app.ReasonFFmpegMissing {
		a.newHeading("ffmpeg was not found").Importance = widget.DangerImportance
		return column(
			widget.NewIcon(theme.ErrorIcon()),
			a.heading,
			hint("Install ffmpeg and make sure it is on your PATH, or set ffmpeg_path in vidconv.yaml, then restart."),
		)
	}

	a.newHeading("Conversion failed").Importance = widget.DangerImportance
	details := widget.NewLabel(errorDetails(state.Err))
	details.Wrapping = fyne.TextWrapWord
	details.Selectable = true

	return column(
		a.heading,
		hint(state.VideoName()),
		details,
		hint("Drop another file to try again"),
	)
}

// errorDetails prefers ffmpeg's own stderr over the wrapped error text.
func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	var ce *errors.ConvertError
	if errors.As(err, &ce) && ce.Stderr != "" {
		return ce.Stderr
	}
	return err.Error()
}
