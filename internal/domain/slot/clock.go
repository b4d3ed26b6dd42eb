package slot

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60

	// FallbackStart is used whenever an HH:MM value cannot be parsed.
	FallbackStart = 8 * 60

	// MinBlockMinutes is the shortest interval drawn on the agenda grid.
	MinBlockMinutes = 30
)

// ParseHM converts "H:MM", "HH:MM" or "HH:MM:SS" into minutes from midnight.
func ParseHM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return h*60 + m, nil
}

// ParseHMOr is ParseHM with a fallback for malformed input.
func ParseHMOr(s string, fallback int) int {
	m, err := ParseHM(s)
	if err != nil {
		return fallback
	}
	return m
}

// FormatHM renders minutes as HH:MM, wrapping past midnight.
// Negative values clamp to 00:00.
func FormatHM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	minutes %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ComputeEndTime adds durationMinutes to startTime.
//
//	ComputeEndTime("08:00", 60) == "09:00"
//	ComputeEndTime("23:30", 60) == "00:30"
func ComputeEndTime(startTime string, durationMinutes int) string {
	return FormatHM(ParseHMOr(startTime, FallbackStart) + durationMinutes)
}

// NormalizeHM rewrites any accepted time form as HH:MM, or returns the
// fallback start.
func NormalizeHM(s string) string {
	return FormatHM(ParseHMOr(s, FallbackStart))
}
