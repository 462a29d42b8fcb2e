// Package timetext converts between the 12-hour "H:MM AM/PM" time strings used
// by the schedule API and integer minutes since midnight.
package timetext

import (
	"fmt"
	"strconv"
	"strings"
)

// Minutes parses a 12-hour time string into minutes since midnight. The
// meridiem is case-insensitive and a leading zero on the hour is optional.
// "PM" with hour < 12 adds 12 hours; "12:xx AM" maps to 0:xx.
func Minutes(s string) (int, error) {
	clock, meridiem, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("malformed hour in %q", s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("malformed minute in %q", s)
	}
	switch strings.ToUpper(strings.TrimSpace(meridiem)) {
	case "PM":
		if hours < 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	default:
		return 0, fmt.Errorf("malformed meridiem in %q", s)
	}
	return hours*60 + minutes, nil
}

// MinutesOr parses the time string, substituting the fallback on malformed
// input. Derivation code uses it where server data is trusted to be
// well-formed.
func MinutesOr(s string, fallback int) int {
	m, err := Minutes(s)
	if err != nil {
		return fallback
	}
	return m
}

// Clock renders minutes since midnight back into "H:MM AM/PM".
func Clock(minutes int) string {
	hour := minutes / 60
	min := minutes % 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, min, meridiem)
}

// FormatDuration renders a positive minute count as "<H> hr[s] [<M> min]",
// omitting zero parts and falling back to "0 min".
func FormatDuration(minutes int) string {
	hr := minutes / 60
	min := minutes % 60
	parts := make([]string, 0, 2)
	if hr == 1 {
		parts = append(parts, "1 hr")
	} else if hr > 1 {
		parts = append(parts, fmt.Sprintf("%d hrs", hr))
	}
	if min > 0 {
		parts = append(parts, fmt.Sprintf("%d min", min))
	}
	if len(parts) == 0 {
		return "0 min"
	}
	return strings.Join(parts, " ")
}

// Before reports whether time a is strictly earlier than time b. Malformed
// values compare as midnight.
func Before(a, b string) bool {
	return MinutesOr(a, 0) < MinutesOr(b, 0)
}
