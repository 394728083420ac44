package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without date or zone, stored in a
// Postgres TIME column and rendered as "HH:MM".
type TimeOfDay struct{ time.Time }

const (
	todLayout     = "15:04:05"
	todScanLayout = "15:04:05.999999999"
	todJSONLayout = "15:04"
)

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Time: time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)}
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	return t, t.parse(s)
}

func (t *TimeOfDay) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	parsed, err := time.Parse(todScanLayout, s)
	if err != nil {
		return fmt.Errorf("invalid time of day %q", s)
	}
	t.Time = parsed
	return nil
}

// String renders HH:MM.
func (t TimeOfDay) String() string {
	return t.Format(todJSONLayout)
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		t.Time = time.Date(0, 1, 1, x.Hour(), x.Minute(), x.Second(), 0, time.UTC)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("timeofday: unsupported scan type %T", v)
	}
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.Format(todLayout), nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
