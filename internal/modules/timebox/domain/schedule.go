package domain

import (
	"strings"

	"timebox/internal/platform/daytime"
)

const (
	PairGapMinutes      = 15
	DefaultPairStartMin = 9 * 60
	SlotStepMinutes     = 5
	PairSearchDays      = 7
)

// Overlaps reports whether [s1,e1) and [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// DetectOverlap reports whether a block of duration minutes at start on date
// would intersect any block in boxes other than excludeID.
func DetectOverlap(boxes []Timebox, date string, start, duration int, excludeID string) bool {
	end := start + duration
	for _, box := range boxes {
		if box.Date != date || (excludeID != "" && box.ID == excludeID) {
			continue
		}
		existingStart, existingEnd, err := box.Interval()
		if err != nil {
			continue
		}
		if Overlaps(start, end, existingStart, existingEnd) {
			return true
		}
	}
	return false
}

// TitleAllowed applies the theme-tag whitelist: blank titles and empty tag
// lists always pass, otherwise the title must contain one of the tags.
func TitleAllowed(title string, tags []string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(tags) == 0 {
		return true
	}
	lowered := strings.ToLower(trimmed)
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if strings.Contains(lowered, normalized) {
			return true
		}
	}
	return false
}

// SearchSlot scans date from the given minute in 5-minute steps for the first
// free start that keeps the block inside the day.
func SearchSlot(boxes []Timebox, date string, from, duration int, excludeID string) (int, bool) {
	if from < 0 {
		from = 0
	}
	for minute := from; minute+duration <= daytime.MinutesPerDay; minute += SlotStepMinutes {
		if !DetectOverlap(boxes, date, minute, duration, excludeID) {
			return minute, true
		}
	}
	return 0, false
}

// Slot is a candidate position for a paired output block.
type Slot struct {
	Date  string
	Start int
}

// FindPairSlot looks for room for an output block matching input: first on
// the same day after a 15-minute gap, then from 09:00 on each of the next
// seven days.
func FindPairSlot(boxes []Timebox, input Timebox) (Slot, bool) {
	start, end, err := input.Interval()
	if err != nil {
		return Slot{}, false
	}
	duration := end - start
	if duration <= 0 {
		return Slot{}, false
	}
	if minute, ok := SearchSlot(boxes, input.Date, end+PairGapMinutes, duration, input.ID); ok {
		return Slot{Date: input.Date, Start: minute}, true
	}
	cursor := input.Date
	for attempt := 0; attempt < PairSearchDays; attempt++ {
		next, err := daytime.NextDateKey(cursor)
		if err != nil {
			return Slot{}, false
		}
		cursor = next
		if minute, ok := SearchSlot(boxes, cursor, DefaultPairStartMin, duration, ""); ok {
			return Slot{Date: cursor, Start: minute}, true
		}
	}
	return Slot{}, false
}
