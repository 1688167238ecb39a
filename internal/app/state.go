// Package app holds the conversion state machine and the orchestration around it.
//
// It has three parts:
//
//  1. State machine (state.go, machine.go):
//     Machine moves between the phases below in response to Messages. Handle
//     never blocks. Work that takes time is returned as a Command that the
//     caller runs in the background, feeding the resulting Message back in.
//
//     SelectFile -> SelectTarget -> Generating -> Complete | Error
//
//  2. Runner (runner.go):
//     Runner owns the located ffmpeg and the one in-flight conversion. It
//     plans the output path, prepares the destination and cancels on request.
//
//  3. Progress reporting (reporter.go, binding.go):
//     UIReporter implements ffmpeg.ProgressReporter with callbacks, and
//     BoundProgress exposes the same values as Fyne data bindings.
package app

import (
	"fmt"
	"path/filepath"

	"vidconv/internal/ffmpeg"
)

// Phase identifies which screen the converter is on.
type Phase int

const (
	PhaseSelectFile Phase = iota
	PhaseSelectTarget
	PhaseGenerating
	PhaseComplete
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectFile:
		return "select-file"
	case PhaseSelectTarget:
		return "select-target"
	case PhaseGenerating:
		return "generating"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Reason says why the machine is in PhaseError.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonFFmpegMissing is terminal: nothing can be converted.
	ReasonFFmpegMissing
	// ReasonConversionFailed is recoverable by dropping another file.
	ReasonConversionFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonFFmpegMissing:
		return "ffmpeg-missing"
	case ReasonConversionFailed:
		return "conversion-failed"
	default:
		return "none"
	}
}

// State is a snapshot of the machine. Only the fields relevant to Phase are set:
//
//	SelectTarget  Video
//	Generating    Video, Target
//	Complete      Video, Target, Output
//	Error         Reason, Err (and Video, Target for a failed conversion)
type State struct {
	Phase  Phase
	Video  string
	Target ffmpeg.Target
	Output string
	Reason Reason
	Err    error
}

// Terminal reports whether the state accepts no further messages.
func (s State) Terminal() bool {
	return s.Phase == PhaseError && s.Reason == ReasonFFmpegMissing
}

// VideoName returns the base name of the selected video.
func (s State) VideoName() string {
	if s.Video == "" {
		return ""
	}
	return filepath.Base(s.Video)
}

func selectFile() State {
	return State{Phase: PhaseSelectFile}
}

func selectTarget(video string) State {
	return State{Phase: PhaseSelectTarget, Video: video}
}

func generating(video string, target ffmpeg.Target) State {
	return State{Phase: PhaseGenerating, Video: video, Target: target}
}

func complete(video string, target ffmpeg.Target, output string) State {
	return State{Phase: PhaseComplete, Video: video, Target: target, Output: output}
}

func failed(reason Reason, err error) State {
	return State{Phase: PhaseError, Reason: reason, Err: err}
}
