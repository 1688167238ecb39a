package ui

import (
	"fyne.io/fyne/v2"

	"vidconv/internal/app"
	"vidconv/internal/log"
)

// onDropped handles files dropped onto the window. Non-file URIs are skipped;
// the machine decides whether the first remaining path is usable.
func (a *App) onDropped(uris []fyne.URI) {
	a.dismissOverwrite()

	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri.Scheme() != "file" {
			log.Debug("ignoring dropped uri", log.String("uri", uri.String()))
			continue
		}
		paths = append(paths, uri.Path())
	}
	a.dispatch(app.FileDropped{Paths: paths})
}

// Open selects paths as if they had been dropped onto the window.
func (a *App) Open(paths []string) {
	a.dismissOverwrite()
	a.dispatch(app.FileDropped{Paths: paths})
}
