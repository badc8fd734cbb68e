package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timebox/internal/modules/timebox/domain"
	timeboxout "timebox/internal/modules/timebox/port/out"
	"timebox/internal/platform/clock"
	"timebox/internal/platform/daytime"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/id"
)

type CreateInput struct {
	Date               string
	Start              string
	Duration           int
	Type               domain.Type
	Title              string
	AutoPair           bool
	PairedFromID       string
	SkipOverlapCheck   bool
	SkipWhitelistCheck bool
}

// Scheduler owns the timebox collection and the later list. Each operation
// reads the persisted collection, mutates it and writes it back, so callers
// in one process serialize on mu.
type Scheduler struct {
	mu    sync.Mutex
	clock clock.Clock
	idGen id.Generator
	repo  timeboxout.Repository
	tags  timeboxout.ThemeTagSource
}

func NewScheduler(clock clock.Clock, idGen id.Generator, repo timeboxout.Repository, tags timeboxout.ThemeTagSource) *Scheduler {
	return &Scheduler{clock: clock, idGen: idGen, repo: repo, tags: tags}
}

func (s *Scheduler) Create(ctx context.Context, input CreateInput) (domain.Timebox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes, err := s.repo.LoadTimeboxes(ctx)
	if err != nil {
		return domain.Timebox{}, err
	}
	created, _, err := s.create(ctx, boxes, input)
	return created, err
}

func (s *Scheduler) create(ctx context.Context, boxes []domain.Timebox, input CreateInput) (domain.Timebox, []domain.Timebox, error) {
	if input.Type != domain.TypeInput && input.Type != domain.TypeOutput {
		return domain.Timebox{}, boxes, fmt.Errorf("%w: unknown timebox type %q", apperrors.ErrInvalidInput, input.Type)
	}
	if _, err := daytime.ParseDateKey(input.Date, time.UTC); err != nil {
		return domain.Timebox{}, boxes, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	startMin, endMin, err := domain.BlockEnd(input.Start, input.Duration)
	if err != nil {
		return domain.Timebox{}, boxes, err
	}
	if !input.SkipOverlapCheck && domain.DetectOverlap(boxes, input.Date, startMin, input.Duration, input.PairedFromID) {
		return domain.Timebox{}, boxes, fmt.Errorf("%w: %s %s-%s", apperrors.ErrScheduleConflict, input.Date, daytime.FormatClock(startMin), daytime.FormatClock(endMin))
	}
	if !input.SkipWhitelistCheck {
		allowed, err := s.titleAllowed(ctx, input.Title)
		if err != nil {
			return domain.Timebox{}, boxes, err
		}
		if !allowed {
			if _, err := s.addLater(ctx, domain.LaterTitle(input.Title, input.Type), input.Type); err != nil {
				return domain.Timebox{}, boxes, err
			}
			return domain.Timebox{}, boxes, fmt.Errorf("%w: %q moved to the later list", apperrors.ErrTitleNotAllowed, input.Title)
		}
	}

	box := domain.Timebox{
		ID:         s.idGen.New(),
		Date:       input.Date,
		Start:      daytime.FormatClock(startMin),
		End:        daytime.FormatClock(endMin),
		Type:       input.Type,
		Title:      input.Title,
		Status:     domain.StatusPlanned,
		AutoPaired: input.AutoPair,
	}
	boxes = append(boxes, box)
	if err := s.repo.SaveTimeboxes(ctx, boxes); err != nil {
		return domain.Timebox{}, boxes, err
	}
	if input.AutoPair {
		var paired bool
		boxes, paired, err = s.ensurePairedOutput(ctx, boxes, box)
		if err != nil {
			return box, boxes, err
		}
		if paired {
			box = boxes[indexOf(boxes, box.ID)]
		}
	}
	return box, boxes, nil
}

// Update merges patch into the box with id. It reports false when id is unknown.
func (s *Scheduler) Update(ctx context.Context, boxID string, patch domain.Patch) (domain.Timebox, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes, err := s.repo.LoadTimeboxes(ctx)
	if err != nil {
		return domain.Timebox{}, false, err
	}
	idx := indexOf(boxes, boxID)
	if idx < 0 {
		return domain.Timebox{}, false, nil
	}
	boxes[idx] = patch.Apply(boxes[idx])
	if err := s.repo.SaveTimeboxes(ctx, boxes); err != nil {
		return domain.Timebox{}, false, err
	}
	return boxes[idx], true, nil
}

func (s *Scheduler) SetStatus(ctx context.Context, boxID string, status domain.Status) (domain.Timebox, bool, error) {
	return s.Update(ctx, boxID, domain.Patch{Status: &status})
}

// Remove deletes the box and unlinks its partner. It reports whether a box
// was removed.
func (s *Scheduler) Remove(ctx context.Context, boxID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes, err := s.repo.LoadTimeboxes(ctx)
	if err != nil {
		return false, err
	}
	kept := boxes[:0]
	removed := false
	for _, box := range boxes {
		if box.ID == boxID {
			removed = true
			continue
		}
		kept = append(kept, box)
	}
	for i := range kept {
		if kept[i].PairedID == boxID {
			kept[i].PairedID = ""
			kept[i].AutoPaired = false
		}
	}
	if err := s.repo.SaveTimeboxes(ctx, kept); err != nil {
		return false, err
	}
	return removed, nil
}

// Reschedule moves a box to date/start with a new duration.
func (s *Scheduler) Reschedule(ctx context.Context, boxID, date, start string, duration int) (domain.Timebox, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes, err := s.repo.LoadTimeboxes(ctx)
	if err != nil {
		return domain.Timebox{}, false, err
	}
	if _, err := daytime.ParseDateKey(date, time.UTC); err != nil {
		return domain.Timebox{}, false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	startMin, endMin, err := domain.BlockEnd(start, duration)
	if err != nil {
		return domain.Timebox{}, false, err
	}
	if domain.DetectOverlap(boxes, date, startMin, duration, boxID) {
		return domain.Timebox{}, false, fmt.Errorf("%w: cannot move to %s %s", apperrors.ErrScheduleConflict, date, daytime.FormatClock(startMin))
	}
	idx := indexOf(boxes, boxID)
	if idx < 0 {
		return domain.Timebox{}, false, nil
	}
	newStart := daytime.FormatClock(startMin)
	newEnd := daytime.FormatClock(endMin)
	boxes[idx] = domain.Patch{Date: &date, Start: &newStart, End: &newEnd}.Apply(boxes[idx])
	if err := s.repo.SaveTimeboxes(ctx, boxes); err != nil {
		return domain.Timebox{}, false, err
	}
	return boxes[idx], true, nil
}

// EnsurePairedOutput schedules an output block for the input box with id.
// Finding no slot is not an error; the returned bool reports whether a
// partner was created.
func (s *Scheduler) EnsurePairedOutput(ctx context.Context, boxID string) (domain.Timebox, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes, err := s.repo.LoadTimeboxes(ctx)
	if err != nil {
		return domain.Timebox{}, false, err
	}
	idx := indexOf(boxes, boxID)
	if idx < 0 {
		return domain.Timebox{}, false, fmt.Errorf("%w: timebox %s", apperrors.ErrNotFound, boxID)
	}
	boxes, paired, err := s.ensurePairedOutput(ctx, boxes, boxes[idx])
	if err != nil || !paired {
		return domain.Timebox{}, false, err
	}
	partner := boxes[indexOf(boxes, boxID)].PairedID
	return boxes[indexOf(boxes, partner)], true, nil
}

func (s *Scheduler) ensurePairedOutput(ctx context.Context, boxes []domain.Timebox, input domain.Timebox) ([]domain.Timebox, bool, error) {
	if input.Type != domain.TypeInput {
		return boxes, false, nil
	}
	slot, ok := domain.FindPairSlot(boxes, input)
	if !ok {
		return boxes, false, nil
	}
	paired, boxes, err := s.create(ctx, boxes, CreateInput{
		Date:               slot.Date,
		Start:              daytime.FormatClock(slot.Start),
		Duration:           input.DurationMinutes(),
		Type:               domain.TypeOutput,
		Title:              input.Title,
		PairedFromID:       input.ID,
		SkipWhitelistCheck: true,
	})
	if err != nil {
		return boxes, false, err
	}
	inputIdx := indexOf(boxes, input.ID)
	pairedIdx := indexOf(boxes, paired.ID)
	boxes[inputIdx].PairedID = paired.ID
	boxes[pairedIdx].PairedID = input.ID
	boxes[pairedIdx].AutoPaired = true
	if err := s.repo.SaveTimeboxes(ctx, boxes); err != nil {
		return boxes, false, err
	}
	return boxes, true, nil
}

// DetectOverlap reports whether the proposed block collides with an existing
// one on date.
func (s *Scheduler) DetectOverlap(ctx context.Context, date, start string, duration int, excludeID string) (bool, error) {
	startMin, err := daytime.ParseClock(start)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	boxes, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return domain.DetectOverlap(boxes, date, startMin, duration, excludeID), nil
}

func (s *Scheduler) Get(ctx context.Context, boxID string) (domain.Timebox, error) {
	boxes, err := s.load(ctx)
	if err != nil {
		return domain.Timebox{}, err
	}
	idx := indexOf(boxes, boxID)
	if idx < 0 {
		return domain.Timebox{}, fmt.Errorf("%w: timebox %s", apperrors.ErrNotFound, boxID)
	}
	return boxes[idx], nil
}

func (s *Scheduler) ForDate(ctx context.Context, date string) ([]domain.Timebox, error) {
	return s.ForRange(ctx, date, 1)
}

// ForRange returns the boxes of days consecutive days starting at date,
// ordered by date then start.
func (s *Scheduler) ForRange(ctx context.Context, date string, days int) ([]domain.Timebox, error) {
	wanted := map[string]struct{}{}
	cursor := date
	for i := 0; i < days; i++ {
		wanted[cursor] = struct{}{}
		next, err := daytime.NextDateKey(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		cursor = next
	}
	boxes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Timebox, 0, len(boxes))
	for _, box := range boxes {
		if _, ok := wanted[box.Date]; ok {
			out = append(out, box)
		}
	}
	domain.SortByStart(out)
	return out, nil
}

// Upcoming lists planned boxes in schedule order.
func (s *Scheduler) Upcoming(ctx context.Context) ([]domain.Timebox, error) {
	boxes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Timebox, 0, len(boxes))
	for _, box := range boxes {
		if box.Status == domain.StatusPlanned {
			out = append(out, box)
		}
	}
	domain.SortByStart(out)
	return out, nil
}

func (s *Scheduler) AddLater(ctx context.Context, title string, boxType domain.Type) (domain.LaterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLater(ctx, title, boxType)
}

func (s *Scheduler) addLater(ctx context.Context, title string, boxType domain.Type) (domain.LaterItem, error) {
	items, err := s.repo.LoadLaterList(ctx)
	if err != nil {
		return domain.LaterItem{}, err
	}
	item := domain.LaterItem{
		ID:        s.idGen.New(),
		Title:     title,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339Nano),
		Type:      boxType,
	}
	items = append(items, item)
	if err := s.repo.SaveLaterList(ctx, items); err != nil {
		return domain.LaterItem{}, err
	}
	return item, nil
}

func (s *Scheduler) LaterList(ctx context.Context) ([]domain.LaterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.LoadLaterList(ctx)
}

func (s *Scheduler) load(ctx context.Context) ([]domain.Timebox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.LoadTimeboxes(ctx)
}

func (s *Scheduler) titleAllowed(ctx context.Context, title string) (bool, error) {
	if s.tags == nil {
		return true, nil
	}
	tags, err := s.tags.ThemeTags(ctx)
	if err != nil {
		return false, fmt.Errorf("load theme tags: %w", err)
	}
	return domain.TitleAllowed(title, tags), nil
}

func indexOf(boxes []domain.Timebox, boxID string) int {
	for i, box := range boxes {
		if box.ID == boxID {
			return i
		}
	}
	return -1
}
