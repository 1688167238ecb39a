package app

import (
	"context"
	"fmt"
	"sync"

	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/fileops"
	"vidconv/internal/log"
)

// Message is an input to the state machine.
type Message interface {
	isMessage()
}

// FileDropped is a window drop event. Only the first path is considered.
type FileDropped struct {
	Paths []string
}

// Submit is the user choosing a target format.
type Submit struct {
	Target ffmpeg.Target
}

// ConversionDone is the result of the conversion command.
type ConversionDone struct {
	Output string
	Err    error
}

// FFmpegChecked is the result of the startup probe.
type FFmpegChecked struct {
	Found   bool
	Path    string
	Version string
}

func (FileDropped) isMessage()    {}
func (Submit) isMessage()         {}
func (ConversionDone) isMessage() {}
func (FFmpegChecked) isMessage()  {}

// Command is background work requested by the machine. The caller runs it
// off the UI goroutine and passes the returned Message back to Handle.
type Command func(ctx context.Context) Message

// Converter performs the work behind the machine's commands. *Runner implements it.
type Converter interface {
	Probe(ctx context.Context) *ffmpeg.Info
	Convert(ctx context.Context, video string, target ffmpeg.Target) (string, error)
}

// Machine is the converter state machine. It is safe for concurrent use.
type Machine struct {
	mu     sync.RWMutex
	state  State
	conv   Converter
	probed bool
}

// NewMachine creates a machine in PhaseSelectFile.
func NewMachine(conv Converter) *Machine {
	return &Machine{state: selectFile(), conv: conv}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Init returns the startup ffmpeg probe. Only the first call returns a command.
func (m *Machine) Init() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.probed {
		return nil
	}
	m.probed = true

	conv := m.conv
	return func(ctx context.Context) Message {
		info := conv.Probe(ctx)
		return FFmpegChecked{Found: info.Installed, Path: info.Path, Version: info.Version}
	}
}

// Handle applies msg and returns the follow-up command, if any. Messages that
// do not apply to the current state are ignored, except Submit which returns
// errors.ErrInvalidTransition outside PhaseSelectTarget.
func (m *Machine) Handle(msg Message) (Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Terminal() {
		log.Debug("message ignored in terminal state", log.String("message", fmt.Sprintf("%T", msg)))
		return nil, nil
	}

	from := m.state.Phase
	var cmd Command
	switch msg := msg.(type) {
	case FileDropped:
		m.handleDrop(msg)
	case Submit:
		c, err := m.handleSubmit(msg)
		if err != nil {
			return nil, err
		}
		cmd = c
	case ConversionDone:
		m.handleDone(msg)
	case FFmpegChecked:
		m.handleChecked(msg)
	default:
		return nil, fmt.Errorf("unknown message %T", msg)
	}

	if m.state.Phase != from {
		log.Debug("state transition",
			log.String("from", from.String()), log.String("to", m.state.Phase.String()))
	}
	return cmd, nil
}

func (m *Machine) handleDrop(msg FileDropped) {
	if m.state.Phase == PhaseGenerating {
		log.Debug("drop ignored while converting")
		return
	}
	if len(msg.Paths) == 0 {
		return
	}
	path := msg.Paths[0]
	if !fileops.IsRegularFile(path) {
		log.Debug("drop ignored, not a regular file", log.String("path", path))
		return
	}
	m.state = selectTarget(path)
}

func (m *Machine) handleSubmit(msg Submit) (Command, error) {
	if m.state.Phase != PhaseSelectTarget {
		return nil, fmt.Errorf("%w: submit in %s", errors.ErrInvalidTransition, m.state.Phase)
	}
	target, err := ffmpeg.ParseTarget(string(msg.Target))
	if err != nil {
		return nil, err
	}

	video := m.state.Video
	m.state = generating(video, target)

	conv := m.conv
	return func(ctx context.Context) Message {
		output, err := conv.Convert(ctx, video, target)
		return ConversionDone{Output: output, Err: err}
	}, nil
}

func (m *Machine) handleDone(msg ConversionDone) {
	if m.state.Phase != PhaseGenerating {
		log.Debug("stale conversion result ignored", log.String("phase", m.state.Phase.String()))
		return
	}
	video, target := m.state.Video, m.state.Target

	switch {
	case errors.IsCancelled(msg.Err):
		m.state = selectTarget(video)
	case msg.Err != nil:
		log.Warn("conversion failed", log.String("video", video), log.Err(msg.Err))
		m.state = failed(ReasonConversionFailed, msg.Err)
		m.state.Video = video
		m.state.Target = target
	default:
		log.Info("conversion complete", log.String("output", msg.Output))
		m.state = complete(video, target, msg.Output)
	}
}

func (m *Machine) handleChecked(msg FFmpegChecked) {
	if msg.Found {
		log.Info("ffmpeg found", log.String("path", msg.Path), log.String("version", msg.Version))
		return
	}
	log.Error("ffmpeg not found")
	m.state = failed(ReasonFFmpegMissing, errors.ErrFFmpegNotFound)
}
