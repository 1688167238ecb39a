// Package ffmpegtest installs shell-script stand-ins for ffmpeg and ffprobe
// so conversions can be tested without a real ffmpeg.
//
// The fake ffmpeg writes its argument list to the output path. Its behavior
// is steered through environment variables (set them with t.Setenv):
//
//	FAKE_FFMPEG_FAIL   print the value to stderr and exit 1
//	FAKE_FFMPEG_SLEEP  sleep this many seconds before finishing
package ffmpegtest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const ffmpegScript = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 6.1.1-fake Copyright (c) 2000-2023 the FFmpeg developers"
  exit 0
fi
for last; do :; done
if [ -n "$FAKE_FFMPEG_FAIL" ]; then
  echo "Input #0, matroska,webm, from 'in':" >&2
  echo "$FAKE_FFMPEG_FAIL" >&2
  exit 1
fi
printf 'frame=   10 fps=0.0 q=-1.0 size=N/A time=00:00:05.00 bitrate=N/A speed=10x\r' >&2
if [ -n "$FAKE_FFMPEG_SLEEP" ]; then
  sleep "$FAKE_FFMPEG_SLEEP"
fi
printf 'frame=   20 fps=0.0 q=-1.0 size=N/A time=00:00:10.00 bitrate=N/A speed=10x\n' >&2
echo "$@" > "$last"
exit 0
`

const ffprobeScript = `#!/bin/sh
echo "10.000000"
`

// Skip skips the test on platforms without /bin/sh.
func Skip(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg requires /bin/sh")
	}
}

// Install writes fake ffmpeg and ffprobe into a temp dir and returns the ffmpeg path.
func Install(t testing.TB) string {
	t.Helper()
	Skip(t)

	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte(ffmpegScript), 0755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ffprobe"), []byte(ffprobeScript), 0755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return ffmpeg
}

// InstallBroken writes an ffmpeg that fails even for -version.
func InstallBroken(t testing.TB) string {
	t.Helper()
	Skip(t)

	ffmpeg := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte("#!/bin/sh\nexit 3\n"), 0755); err != nil {
		t.Fatalf("write broken ffmpeg: %v", err)
	}
	return ffmpeg
}

// Video writes a placeholder source file and returns its path.
func Video(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}
