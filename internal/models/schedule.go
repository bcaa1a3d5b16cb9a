package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday is the persisted key of a day in a WeeklySchedule.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays lists every day key in display order (Mon–Sun).
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a time.Weekday to its schedule key.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[(int(d)+6)%7]
}

// ParseWeekday accepts short or long English day names, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, wd := range Weekdays {
		if s == string(wd) || (len(s) > 3 && strings.HasPrefix(wd.Long(), s)) {
			return wd, nil
		}
	}
	return "", fmt.Errorf("invalid weekday: %q", s)
}

// Long returns the lower-case English day name.
func (w Weekday) Long() string {
	switch w {
	case Monday:
		return "monday"
	case Tuesday:
		return "tuesday"
	case Wednesday:
		return "wednesday"
	case Thursday:
		return "thursday"
	case Friday:
		return "friday"
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	}
	return string(w)
}

// ScheduleBlock is one planned interval within a weekday.
type ScheduleBlock struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"` // HH:MM, 24-hour
	Minutes   int    `json:"minutes"`
}

// WeeklySchedule maps every weekday to its blocks in insertion order.
// A well-formed schedule always carries all seven keys.
type WeeklySchedule map[Weekday][]ScheduleBlock

// Day returns the blocks for d, never nil.
func (s WeeklySchedule) Day(d Weekday) []ScheduleBlock {
	if blocks := s[d]; blocks != nil {
		return blocks
	}
	return []ScheduleBlock{}
}

// Clone deep-copies the schedule, filling any missing day.
func (s WeeklySchedule) Clone() WeeklySchedule {
	out := make(WeeklySchedule, len(Weekdays))
	for _, d := range Weekdays {
		blocks := s[d]
		cp := make([]ScheduleBlock, len(blocks))
		copy(cp, blocks)
		out[d] = cp
	}
	return out
}

// MarshalJSON writes all seven days in Mon–Sun order.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		blocks, err := json.Marshal(s.Day(d))
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:%s", d, blocks)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON never fails: a non-object schedule, or a day that is absent or
// not a list of blocks, decodes as empty. Unknown keys are ignored.
func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
	}
	out := make(WeeklySchedule, len(Weekdays))
	for _, d := range Weekdays {
		var blocks []ScheduleBlock
		if msg, ok := raw[string(d)]; ok {
			if err := json.Unmarshal(msg, &blocks); err != nil {
				blocks = nil
			}
		}
		if blocks == nil {
			blocks = []ScheduleBlock{}
		}
		out[d] = blocks
	}
	*s = out
	return nil
}
