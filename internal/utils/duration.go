package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
)

// maxSpan bounds SpanBetween; anything longer is treated as clock skew or bad input.
const maxSpan = 24 * time.Hour

// Pad renders n as a zero-padded two digit field.
func Pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ToSeconds converts an HH:MM:SS or MM:SS duration into whole seconds.
// Malformed input yields 0.
func ToSeconds(duration string) int {
	parts := strings.Split(strings.TrimSpace(duration), ":")

	var fields [3]int
	switch len(parts) {
	case 3:
		for i, p := range parts {
			v, ok := parseField(p)
			if !ok {
				return 0
			}
			fields[i] = v
		}
	case 2:
		for i, p := range parts {
			v, ok := parseField(p)
			if !ok {
				return 0
			}
			fields[i+1] = v
		}
	default:
		return 0
	}

	return fields[0]*3600 + fields[1]*60 + fields[2]
}

// parseField accepts an integer field, truncating any fractional part ("25.4" -> 25).
func parseField(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, v >= 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int(f), true
}

// FromSeconds renders seconds as HH:MM:SS. Non-positive input yields "00:00:00".
func FromSeconds(seconds int) string {
	if seconds <= 0 {
		return constants.ZeroDuration
	}
	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	return Pad(hours) + ":" + Pad(minutes) + ":" + Pad(seconds%60)
}

// Add sums loose hour/minute/second counts, carrying overflow upward.
func Add(hours, minutes, seconds int) string {
	return FromSeconds(hours*3600 + minutes*60 + seconds)
}

// Normalize re-pads an HH:MM:SS or MM:SS duration.
func Normalize(duration string) string {
	return FromSeconds(ToSeconds(duration))
}

// SpanSeconds returns the whole seconds from start to end, rounded down.
func SpanSeconds(start, end time.Time) int {
	d := end.Sub(start)
	secs := int(d / time.Second)
	if d%time.Second < 0 {
		secs--
	}
	return secs
}

// SpanBetween renders the span from start to end as HH:MM:SS.
// Spans that are empty, negative or longer than a day render as "00:00:00".
func SpanBetween(start, end time.Time) string {
	if !end.After(start) || end.Sub(start) > maxSpan {
		return constants.ZeroDuration
	}
	return FromSeconds(SpanSeconds(start, end))
}

// Percentage returns part as a percentage of whole, or 0 when whole is not positive.
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
