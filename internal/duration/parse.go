// Package duration turns free-form duration text ("45", "30 min", "1.5h")
// into whole minutes.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MsgRequired        = "Duration is required."
	MsgMinutesPositive = "Minutes must be > 0."
	MsgHoursPositive   = "Hours must be > 0."
	MsgTooSmall        = "Duration too small."
	MsgUnrecognized    = `Could not understand duration. Try "45", "30m", "90 min", "1h" or "1.5 hours".`
)

// ParseError carries the user-facing message for a rejected duration.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// matcher handles one input form. matched is false when the form does not apply.
type matcher func(s string) (minutes int, matched bool, err error)

var (
	digitsRe  = regexp.MustCompile(`^\d+$`)
	minutesRe = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes)$`)
	hoursRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)\s*(h|hr|hrs|hour|hours)$`)
)

// Evaluated in order; first match wins.
var matchers = []matcher{
	matchDigits,
	matchMinutes,
	matchHours,
}

// Parse converts text to a positive number of whole minutes. Decimals are
// only accepted in the hour form.
func Parse(text string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, &ParseError{Message: MsgRequired}
	}

	for _, m := range matchers {
		minutes, ok, err := m(s)
		if !ok {
			continue
		}
		if err != nil {
			return 0, err
		}
		return minutes, nil
	}

	return 0, &ParseError{Message: MsgUnrecognized}
}

func matchDigits(s string) (int, bool, error) {
	if !digitsRe.MatchString(s) {
		return 0, false, nil
	}
	return positiveMinutes(s)
}

func matchMinutes(s string) (int, bool, error) {
	m := minutesRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}
	return positiveMinutes(m[1])
}

func matchHours(s string) (int, bool, error) {
	m := hoursRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}
	hours, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(hours, 0) || math.IsNaN(hours) || hours <= 0 {
		return 0, true, &ParseError{Message: MsgHoursPositive}
	}
	minutes := math.Round(hours * 60)
	if minutes <= 0 {
		return 0, true, &ParseError{Message: MsgTooSmall}
	}
	if minutes > math.MaxInt32 {
		return 0, true, &ParseError{Message: MsgUnrecognized}
	}
	return int(minutes), true, nil
}

func positiveMinutes(digits string) (int, bool, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Only overflow gets here; the pattern already guarantees digits.
		return 0, true, &ParseError{Message: MsgUnrecognized}
	}
	if n <= 0 {
		return 0, true, &ParseError{Message: MsgMinutesPositive}
	}
	return n, true, nil
}

// Format renders minutes the way the parser reads them back, e.g. "1h 30m".
func Format(minutes int) string {
	if minutes < 60 {
		return strconv.Itoa(minutes) + "m"
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return strconv.Itoa(h) + "h"
	}
	return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
}
