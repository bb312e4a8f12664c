package service

import (
	"time"

	"tamper_monitor/internal/models"
)

const (
	displayTimestampLayout = "1/2/2006, 3:04:05 PM"
	displayTimeOfDayLayout = "3:04:05 PM"
)

// displayTimestamp renders an event timestamp for people. Timestamps that do
// not parse are shown verbatim.
func displayTimestamp(e models.Event, loc *time.Location) string {
	t, ok := e.Time()
	if !ok {
		return e.Ts
	}
	return t.In(loc).Format(displayTimestampLayout)
}

func displayTimeOfDay(e models.Event, loc *time.Location) string {
	t, ok := e.Time()
	if !ok {
		return e.Ts
	}
	return t.In(loc).Format(displayTimeOfDayLayout)
}
