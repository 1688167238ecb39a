//go:build !cli

package main

import (
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"vidconv/internal/cli"
	"vidconv/internal/ui"
)

// appID identifies the application to Fyne (preferences, notifications).
const appID = "io.github.vidconv"

// run is the GUI+CLI entry point.
// It first checks for CLI subcommands, and if none are found, launches the GUI.
func run() {
	if cli.Execute(version) {
		return
	}

	cfg, closeLog, files, err := cli.SetupGUI(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// A file passed on the command line (e.g. "Open with") is selected up front.
	app := ui.NewApp(fyneapp.NewWithID(appID), version, cfg)
	if len(files) > 0 {
		app.Open(files)
	}
	app.Run()
}
