package utils

import (
	"strings"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
)

var dateTimeLayouts = []string{
	constants.DateTimeFormat,
	constants.DateTimeMinuteFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDateTime parses a station server timestamp in the local timezone.
func ParseDateTime(s string) (time.Time, bool) {
	return ParseDateTimeIn(s, time.Local)
}

// ParseDateTimeIn parses a station server timestamp ("YYYY-MM-DD HH:MM[:SS]") in loc.
// The second return value is false for empty or malformed input.
func ParseDateTimeIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders t in the station server timestamp format.
func FormatDateTime(t time.Time) string {
	return t.Format(constants.DateTimeFormat)
}

// TimeOfDay renders the HH:MM:SS portion of t.
func TimeOfDay(t time.Time) string {
	return t.Format(constants.ClockFormat)
}

// TrimSeconds drops the trailing ":SS" of a server timestamp for compact display.
func TrimSeconds(datetime string) string {
	if strings.Count(datetime, ":") < 2 {
		return datetime
	}
	return datetime[:strings.LastIndex(datetime, ":")]
}

// AddDuration offsets t by an HH:MM:SS duration.
func AddDuration(t time.Time, duration string) time.Time {
	return t.Add(time.Duration(ToSeconds(duration)) * time.Second)
}
