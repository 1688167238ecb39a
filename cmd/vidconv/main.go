// vidconv v0.3.0
// Copyright (c) vidconv developers
// Released under GPL-3.0-only
//
// vidconv converts video files to MP4 or GIF by running ffmpeg.
//
// Drop a video onto the window, pick a format, and the result is written to
// a "dist" directory next to the source (or the configured output_dir).
// The same conversions are available from the command line:
//
//	vidconv convert -i clip.webm -t gif
//	vidconv check
//
// Build modes:
//   - Default build: GUI + CLI (requires graphics libraries)
//   - CLI-only build: go build -tags cli (no graphics dependencies)

package main

// version is the application version reported by --version.
const version = "v0.3.0"

func main() {
	run()
}
