package ffmpeg

import (
	"fmt"
	"strings"

	"vidconv/internal/errors"
)

// Target is an output container format.
type Target string

const (
	TargetMP4 Target = "mp4"
	TargetGIF Target = "gif"
)

// Targets lists the supported targets in display order.
var Targets = []Target{TargetMP4, TargetGIF}

// ParseTarget accepts "mp4", "GIF", ".gif" and similar spellings.
func ParseTarget(s string) (Target, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "mp4":
		return TargetMP4, nil
	case "gif":
		return TargetGIF, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedTarget, s)
	}
}

// Extension returns the file extension including the dot.
func (t Target) Extension() string {
	return "." + string(t)
}

// Label is the button caption for the target.
func (t Target) Label() string {
	return strings.ToUpper(string(t))
}

func (t Target) String() string {
	return string(t)
}

// evenDimensions rounds width and height down to even numbers; libx264 with
// yuv420p rejects odd frame sizes.
const evenDimensions = "scale=trunc(iw/2)*2:trunc(ih/2)*2"

// Args builds the ffmpeg argument list for converting src into dst.
// The destination is expected to be absent, so no -y is passed.
func Args(src, dst string, target Target) ([]string, error) {
	args := []string{"-hide_banner", "-nostdin", "-i", src}

	switch target {
	case TargetMP4:
		args = append(args, "-vf", evenDimensions)
	case TargetGIF:
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedTarget, string(target))
	}

	return append(args, dst), nil
}
