package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Statify converts processed media time, total media duration and the wall-clock
// start into progress (0.0-1.0), speed (multiple of realtime) and an ETA string.
func Statify(done, total time.Duration, start time.Time) (float32, float64, string) {
	if total <= 0 {
		return 0, 0, "00:00:00"
	}

	progress := math.Min(float64(done)/float64(total), 1)
	if progress < 0 {
		progress = 0
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 || done <= 0 {
		return float32(progress), 0, "00:00:00"
	}

	speed := done.Seconds() / elapsed

	var eta int
	if speed > 0 {
		eta = int(math.Floor((total - done).Seconds() / speed))
	}

	return float32(progress), speed, Timeify(eta)
}

// Timeify converts seconds to "HH:MM:SS" format.
func Timeify(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Sizeify converts bytes to a human-readable string (KiB, MiB, GiB, TiB).
func Sizeify(size int64) string {
	if size >= int64(TiB) {
		return fmt.Sprintf("%.2f TiB", float64(size)/float64(TiB))
	} else if size >= int64(GiB) {
		return fmt.Sprintf("%.2f GiB", float64(size)/float64(GiB))
	} else if size >= int64(MiB) {
		return fmt.Sprintf("%.2f MiB", float64(size)/float64(MiB))
	} else {
		return fmt.Sprintf("%.2f KiB", float64(size)/float64(KiB))
	}
}

// ParseClock parses an ffmpeg clock value ("HH:MM:SS.ss", "MM:SS.ss" or "SS.ss").
// A leading '-' (ffmpeg prints N/A or negative times before the first frame) is rejected.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}

	var total float64
	for i, p := range parts {
		last := i == len(parts)-1
		if last {
			sec, err := strconv.ParseFloat(p, 64)
			if err != nil || sec < 0 {
				return 0, fmt.Errorf("invalid clock value %q", s)
			}
			total = total*60 + sec
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock value %q", s)
		}
		total = total*60 + float64(n)
	}

	return time.Duration(total * float64(time.Second)), nil
}
