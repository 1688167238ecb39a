package ui

import (
	"fyne.io/fyne/v2/dialog"
)

// overwritePrompt is the pending overwrite confirmation, kept so tests can answer it.
type overwritePrompt struct {
	dialog  *dialog.ConfirmDialog
	output  string
	respond func(bool)
}

// confirmOverwrite asks before replacing output and calls proceed on confirmation.
func (a *App) confirmOverwrite(output string, proceed func()) {
	p := &overwritePrompt{output: output}
	p.respond = func(overwrite bool) {
		a.overwrite = nil
		if overwrite {
			proceed()
		}
	}
	p.dialog = dialog.NewConfirm("Warning:", output+" already exists. Overwrite?", p.respond, a.Window)
	a.overwrite = p
	p.dialog.Show()
}

// dismissOverwrite hides a pending confirmation, answering it with no.
func (a *App) dismissOverwrite() {
	if a.overwrite != nil {
		a.overwrite.dialog.Hide()
		a.overwrite = nil
	}
}
