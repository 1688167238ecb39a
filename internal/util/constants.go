// Package util provides common utilities and constants for vidconv.
//
// This package contains:
//   - Size constants (KiB, MiB, GiB, TiB) for output size display
//   - Progress and time formatting (Statify, Timeify, Sizeify, ParseClock)
//
// All utilities are stateless and thread-safe.
package util

// Size constants for byte calculations
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
	TiB = 1 << 40
)
