package booking

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockFormatError reports a clock string that is not a valid "HH:MM".
type ClockFormatError struct {
	Value string
}

func (e *ClockFormatError) Error() string {
	return fmt.Sprintf("invalid clock time %q, want HH:MM", e.Value)
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, &ClockFormatError{Value: clock}
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, &ClockFormatError{Value: clock}
	}

	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, &ClockFormatError{Value: clock}
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
// The offset is normalized onto a 24-hour clock first.
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes computes the end clock for a start clock plus a duration.
// The result wraps within a 24-hour clock; an appointment running past
// midnight is not modeled as a second day.
func AddMinutes(clock string, minutes int) (string, error) {
	start, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return FormatClock(start + minutes), nil
}
