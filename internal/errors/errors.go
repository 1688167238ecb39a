// Package errors provides typed errors for vidconv operations.
// This enables callers to use errors.Is() and errors.As() for specific error handling.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
// Use errors.Is(err, errors.ErrCancelled) to check for specific errors.
var (
	// Operation errors
	ErrCancelled         = errors.New("conversion cancelled")
	ErrFFmpegNotFound    = errors.New("ffmpeg not found")
	ErrConversionFailed  = errors.New("ffmpeg conversion failed")
	ErrInvalidTransition = errors.New("invalid state transition")

	// Input validation errors
	ErrNoInputFiles      = errors.New("no input files specified")
	ErrUnsupportedTarget = errors.New("unsupported target format")
	ErrNotAFile          = errors.New("not a regular file")

	// Output errors
	ErrFileExists      = errors.New("output already exists")
	ErrOutputDirIsFile = errors.New("output directory is a file")
	ErrOutputIsDir     = errors.New("output path is a directory")
	ErrSameFile        = errors.New("output would overwrite the source")
)

// FileError represents an error during file operations.
type FileError struct {
	Op   string // Operation: "stat", "mkdir", "remove"
	Path string // File path
	Err  error  // Underlying error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Op, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError.
func NewFileError(op, path string, err error) *FileError {
	return &FileError{Op: op, Path: path, Err: err}
}

// ConvertError is returned when the ffmpeg process exits unsuccessfully.
// Stderr holds the tail of the process output for display and logging.
type ConvertError struct {
	Source   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ConvertError) Error() string {
	msg := fmt.Sprintf("convert %s: exit code %d", e.Source, e.ExitCode)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// Unwrap exposes both ErrConversionFailed and the process error.
func (e *ConvertError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversionFailed}
	}
	return []error{ErrConversionFailed, e.Err}
}

// NewConvertError creates a new ConvertError.
func NewConvertError(source string, exitCode int, stderr string, err error) *ConvertError {
	return &ConvertError{Source: source, ExitCode: exitCode, Stderr: stderr, Err: err}
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n ")
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// Is checks if target matches any of our sentinel errors.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single import.
func New(text string) error {
	return errors.New(text)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCancelled checks if the error indicates a cancelled conversion.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
