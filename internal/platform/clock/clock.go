package clock

import "time"

// Clock abstracts time to keep timers and schedules deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in Location. Calendar days are derived from
// that location, so a nil Location means the process-local zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// Epoch converts t into milliseconds since the Unix epoch.
func Epoch(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpoch converts milliseconds since the Unix epoch into a time in loc.
func FromEpoch(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}
