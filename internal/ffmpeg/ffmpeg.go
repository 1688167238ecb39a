// Package ffmpeg locates the external ffmpeg binary and runs MP4/GIF conversions with it.
//
// The conversion is fully delegated to the ffmpeg process. This package only
// builds argument lists, reads ffmpeg's stderr to derive progress, and maps
// process failures to typed errors from internal/errors.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"

	"vidconv/internal/errors"
	"vidconv/internal/log"
)

// versionRegex extracts the version token from the first line of `ffmpeg -version`,
// e.g. "6.1.1-3ubuntu5" or "n7.0".
var versionRegex = regexp.MustCompile(`ffmpeg version (\S+)`)

// FFmpeg wraps the ffmpeg and ffprobe executables.
// ProbePath may be empty; conversions then run without a known duration.
type FFmpeg struct {
	Path      string
	ProbePath string
}

// Info describes the result of Verify. Err holds the reason when Installed is false.
type Info struct {
	Path      string
	ProbePath string
	Version   string
	Installed bool
	Err       error
}

// FFmpeg returns the verified binaries, or nil when ffmpeg is not usable.
func (i *Info) FFmpeg() *FFmpeg {
	if i == nil || !i.Installed {
		return nil
	}
	return &FFmpeg{Path: i.Path, ProbePath: i.ProbePath}
}

func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// Locate finds ffmpeg. A non-empty configured path is used as-is and must exist.
// Otherwise bin/ next to the executable, ../bin, ./bin and finally PATH are searched.
func Locate(configured string) (*FFmpeg, error) {
	ffmpegName := binaryName("ffmpeg")

	if configured != "" {
		stat, err := os.Stat(configured)
		if err != nil || stat.IsDir() {
			return nil, fmt.Errorf("%w: %s", errors.ErrFFmpegNotFound, configured)
		}
		return &FFmpeg{Path: configured, ProbePath: probeNextTo(configured)}, nil
	}

	var searchPaths []string
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		searchPaths = append(searchPaths,
			filepath.Join(exeDir, "bin"),
			filepath.Join(exeDir, "..", "bin"),
		)
	}
	searchPaths = append(searchPaths, "bin")

	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, ffmpegName)
		if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
			return &FFmpeg{Path: candidate, ProbePath: probeNextTo(candidate)}, nil
		}
	}

	path, err := exec.LookPath(ffmpegName)
	if err != nil {
		return nil, errors.ErrFFmpegNotFound
	}
	return &FFmpeg{Path: path, ProbePath: probeNextTo(path)}, nil
}

// probeNextTo returns ffprobe from the same directory as ffmpeg, falling back to PATH.
func probeNextTo(ffmpegPath string) string {
	candidate := filepath.Join(filepath.Dir(ffmpegPath), binaryName("ffprobe"))
	if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
		return candidate
	}
	if path, err := exec.LookPath(binaryName("ffprobe")); err == nil {
		return path
	}
	return ""
}

// Verify runs `ffmpeg -version`. A binary that cannot be executed or exits
// non-zero is reported as Installed == false together with the cause.
func (f *FFmpeg) Verify(ctx context.Context) (*Info, error) {
	cmd := exec.CommandContext(ctx, f.Path, "-version")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		log.Warn("ffmpeg -version failed", log.String("path", f.Path), log.Err(err))
		err = fmt.Errorf("%w: failed to execute %s: %v", errors.ErrFFmpegNotFound, f.Path, err)
		return &Info{Path: f.Path, ProbePath: f.ProbePath, Err: err}, err
	}

	version := ""
	if matches := versionRegex.FindSubmatch(out.Bytes()); len(matches) >= 2 {
		version = string(matches[1])
	}

	log.Debug("ffmpeg found", log.String("path", f.Path), log.String("version", version))
	return &Info{Path: f.Path, ProbePath: f.ProbePath, Version: version, Installed: true}, nil
}

// Detect combines Locate and Verify. It never returns nil. A missing or broken
// binary is reported through Installed and Err. Path is empty when nothing was located.
func Detect(ctx context.Context, configured string) *Info {
	f, err := Locate(configured)
	if err != nil {
		log.Warn("ffmpeg not located", log.String("configured", configured), log.Err(err))
		return &Info{Err: err}
	}
	info, _ := f.Verify(ctx)
	return info
}
