package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"cinephile/internal/validation"
)

const microsPerDay = int64(24 * time.Hour / time.Microsecond)

var showTimeLayouts = []string{"15:04:05.999999", "15:04:05", "15:04"}

// ShowTime is a time of day stored as microseconds since midnight, matching
// the precision of a PostgreSQL TIME column.
type ShowTime struct {
	Microseconds int64
}

func NewShowTime(hour, minute, second int) ShowTime {
	d := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second
	return ShowTime{Microseconds: d.Microseconds()}
}

func ParseShowTime(s string) (ShowTime, error) {
	for _, layout := range showTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return ShowTime{Microseconds: t.Sub(midnight).Microseconds()}, nil
	}
	return ShowTime{}, fmt.Errorf("%w: time has wrong format, use hh:mm[:ss]", validation.ErrInvalidValue)
}

func (t ShowTime) Validate() error {
	return validation.CheckTimeOfDay(time.Duration(min(t.Microseconds, microsPerDay)) * time.Microsecond)
}

func (t ShowTime) String() string {
	d := time.Duration(t.Microseconds) * time.Microsecond
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04:05")
}

func (t ShowTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ShowTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseShowTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
