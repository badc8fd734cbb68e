package domain

import (
	"fmt"
	"sort"
	"strings"

	"timebox/internal/platform/daytime"
	apperrors "timebox/internal/platform/errors"
)

type Type string

const (
	TypeInput  Type = "input"
	TypeOutput Type = "output"
)

func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeInput:
		return TypeInput, nil
	case TypeOutput:
		return TypeOutput, nil
	default:
		return "", fmt.Errorf("%w: unknown timebox type %q", apperrors.ErrInvalidInput, raw)
	}
}

type Status string

const (
	StatusPlanned Status = "planned"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPlanned, StatusRunning, StatusDone, StatusSkipped:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown timebox status %q", apperrors.ErrInvalidInput, raw)
	}
}

// Timebox is one scheduled block. Start and End are "HH:mm" offsets within
// Date; PairedID links an input block and its generated output block.
type Timebox struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Type       Type   `json:"type"`
	Title      string `json:"title,omitempty"`
	Status     Status `json:"status"`
	PairedID   string `json:"pairedId,omitempty"`
	AutoPaired bool   `json:"autoPaired,omitempty"`
}

// Interval returns the block as a half-open [start, end) range of minutes.
func (b Timebox) Interval() (int, int, error) {
	start, err := daytime.ParseClock(b.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := daytime.ParseClock(b.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (b Timebox) DurationMinutes() int {
	start, end, err := b.Interval()
	if err != nil {
		return 0
	}
	return end - start
}

// Patch carries the fields of a direct merge; nil fields are left alone.
type Patch struct {
	Title      *string
	Status     *Status
	Date       *string
	Start      *string
	End        *string
	PairedID   *string
	AutoPaired *bool
}

func (p Patch) Apply(b Timebox) Timebox {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Start != nil {
		b.Start = *p.Start
	}
	if p.End != nil {
		b.End = *p.End
	}
	if p.PairedID != nil {
		b.PairedID = *p.PairedID
	}
	if p.AutoPaired != nil {
		b.AutoPaired = *p.AutoPaired
	}
	return b
}

// LaterItem is a backlog entry created when a title fails the theme check.
type LaterItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	Type      Type   `json:"type"`
}

// LaterTitle picks the backlog title for a redirected block.
func LaterTitle(title string, boxType Type) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	if boxType == TypeInput {
		return "Input task"
	}
	return "Output task"
}

// BlockEnd validates a block of duration minutes starting at start and
// returns its end offset. Blocks may not run past midnight.
func BlockEnd(start string, duration int) (int, int, error) {
	startMin, err := daytime.ParseClock(start)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if duration <= 0 {
		return 0, 0, fmt.Errorf("%w: duration must be positive, got %d", apperrors.ErrInvalidInput, duration)
	}
	endMin := startMin + duration
	if endMin > daytime.MinutesPerDay {
		return 0, 0, fmt.Errorf("%w: block %s+%dm runs past midnight", apperrors.ErrInvalidInput, start, duration)
	}
	return startMin, endMin, nil
}

// SortByStart orders blocks by date, then start time.
func SortByStart(boxes []Timebox) {
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].Date != boxes[j].Date {
			return boxes[i].Date < boxes[j].Date
		}
		si, _ := daytime.ParseClock(boxes[i].Start)
		sj, _ := daytime.ParseClock(boxes[j].Start)
		return si < sj
	})
}
