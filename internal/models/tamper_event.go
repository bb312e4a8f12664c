package models

import "time"

// TimestampLayout is the ISO-8601 form events are stamped with (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Event is a single tamper-sensor reading.
type Event struct {
	ID       string `json:"id"`
	Ts       string `json:"ts"`     // ISO-8601, creation time
	Status   string `json:"status"` // OK | WARNING | TAMPER DETECTED | free text
	Value    string `json:"value"`  // one fractional digit, e.g. "12.3"
	Note     string `json:"note"`
	Resolved bool   `json:"resolved"`
}

// Time parses Ts. ok is false when the stored timestamp is not ISO-8601.
func (e Event) Time() (t time.Time, ok bool) {
	t, err := time.Parse(time.RFC3339Nano, e.Ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NowTimestamp formats t the way new events are stamped.
func NowTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
