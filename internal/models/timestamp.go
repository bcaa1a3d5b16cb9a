package models

import (
	"encoding/json"
	"time"

	"github.com/julianstephens/pa/internal/utils"
)

// Timestamp is a time.Time that serializes as an ISO-8601 string with
// millisecond precision and accepts any recognizable time string on decode.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(utils.FormatTimestamp(ts.Time))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}
