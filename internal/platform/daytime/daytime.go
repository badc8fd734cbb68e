// Package daytime converts between wall-clock strings, minute-of-day offsets
// and calendar-day keys.
package daytime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	dateKeyLayout = "2006-01-02"
)

// ParseClock parses an "HH:mm" string into minutes after midnight. "24:00" is
// accepted as the end of the day.
func ParseClock(value string) (int, error) {
	hourStr, minuteStr, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: expected HH:mm", value)
	}
	hours, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(minuteStr)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", value, err)
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("invalid clock %q: out of range", value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:mm".
func FormatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DiffMinutes returns end-start in minutes.
func DiffMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// DateKey encodes the calendar day of t, in t's location, as "yyyy-MM-dd".
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey decodes a "yyyy-MM-dd" key into midnight of that day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateKeyLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// NextDateKey returns the key of the calendar day after key.
func NextDateKey(key string) (string, error) {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, 1)), nil
}

// StartOfDay truncates t to local midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatSeconds renders a countdown as "MM:SS".
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatMinutes renders a duration such as "1h 30m".
func FormatMinutes(total int) string {
	hours := total / 60
	minutes := total % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
