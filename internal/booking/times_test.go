package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"10:40", 640},
		{"23:59", 1439},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseClockRejectsMalformedInput(t *testing.T) {
	bad := []string{
		"",
		"9:00",
		"09:0",
		"0900",
		"24:00",
		"23:60",
		"-1:30",
		"ab:cd",
		"09:00:00",
	}

	for _, in := range bad {
		_, err := ParseClock(in)
		require.Error(t, err, in)

		var fmtErr *ClockFormatError
		assert.ErrorAs(t, err, &fmtErr, in)
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		minutes int
		want    string
	}{
		{"09:00", 90, "10:30"},
		{"09:00", 100, "10:40"},
		{"09:00", 0, "09:00"},
		{"23:30", 45, "00:15"}, // wraps within a 24h clock
		{"00:00", 1440, "00:00"},
	}

	for _, tt := range tests {
		got, err := AddMinutes(tt.clock, tt.minutes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s + %dm", tt.clock, tt.minutes)
	}
}

func TestAddMinutesPropagatesFormatError(t *testing.T) {
	_, err := AddMinutes("25:00", 30)

	var fmtErr *ClockFormatError
	assert.ErrorAs(t, err, &fmtErr)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:15", FormatClock(15))
	assert.Equal(t, "10:40", FormatClock(640))
	assert.Equal(t, "00:15", FormatClock(1455))
	assert.Equal(t, "23:45", FormatClock(-15))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", got)

	for _, bad := range []string{"", "10-01-2025", "2025-13-01", "2025-01-32", "hoy"} {
		_, err := ParseDate(bad)

		var dateErr *DateFormatError
		assert.ErrorAs(t, err, &dateErr, bad)
	}
}
