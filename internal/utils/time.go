package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/pa/internal/constants"
)

// timestampLayouts are the time strings accepted from stored or imported data.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	constants.DateFormat,
}

// ParseTimestamp parses any recognizable timestamp. Layouts without an offset
// are read in the local timezone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z07:00") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameLocalDay reports whether a falls on the same calendar date as ref,
// with both read in ref's location.
func SameLocalDay(a, ref time.Time) bool {
	a = a.In(ref.Location())
	ay, am, ad := a.Date()
	ry, rm, rd := ref.Date()
	return ay == ry && am == rm && ad == rd
}

// StartOfWeek returns local midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// MinutesSinceMidnight returns the wall-clock minute of day for t.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
