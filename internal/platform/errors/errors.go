package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Scheduling.
	ErrScheduleConflict = errors.New("time slot conflicts with an existing timebox")
	ErrTitleNotAllowed  = errors.New("title not allowed by theme tags")

	// Cloud sync.
	ErrSyncDisabled       = errors.New("cloud sync is not enabled")
	ErrBusy               = errors.New("another sync operation is in progress")
	ErrMissingSyncKey     = errors.New("missing sync key")
	ErrInvalidSyncKey     = errors.New("invalid sync key")
	ErrEmptyPayload       = errors.New("empty payload")
	ErrInvalidJSON        = errors.New("invalid json")
	ErrInvalidContentType = errors.New("invalid content type")
)
