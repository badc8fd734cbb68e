package domain

import (
	"encoding/json"
	"fmt"
	"net/http"

	storagedomain "timebox/internal/modules/storage/domain"
	apperrors "timebox/internal/platform/errors"
)

// State is the per-device sync bookkeeping. A version is the epoch-ms
// timestamp of the last successful exchange of that record in either
// direction.
type State struct {
	SyncKey        string                      `json:"syncKey"`
	RecordVersions map[storagedomain.Key]int64 `json:"recordVersions"`
	LastPullAt     int64                       `json:"lastPullAt,omitempty"`
}

func NewState(syncKey string) State {
	return State{SyncKey: syncKey, RecordVersions: map[storagedomain.Key]int64{}}
}

func (s State) Version(key storagedomain.Key) int64 {
	return s.RecordVersions[key]
}

// Advance moves the version of key to ts. Versions never move backwards.
func (s *State) Advance(key storagedomain.Key, ts int64) bool {
	if s.RecordVersions == nil {
		s.RecordVersions = map[storagedomain.Key]int64{}
	}
	if ts <= s.RecordVersions[key] {
		return false
	}
	s.RecordVersions[key] = ts
	return true
}

func (s State) Clone() State {
	out := s
	out.RecordVersions = make(map[storagedomain.Key]int64, len(s.RecordVersions))
	for k, v := range s.RecordVersions {
		out.RecordVersions[k] = v
	}
	return out
}

// Record is one named blob as exchanged with the remote store.
type Record struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt int64           `json:"updatedAt"`
}

type PullResponse struct {
	Records  []Record `json:"records"`
	PulledAt int64    `json:"pulledAt"`
}

type EventType string

const (
	EventPushSuccess EventType = "push:success"
	EventPushError   EventType = "push:error"
	EventPullSuccess EventType = "pull:success"
	EventPullError   EventType = "pull:error"
)

type Event struct {
	Type      EventType
	Key       storagedomain.Key
	Timestamp int64
	Applied   int
	Err       error
}

type Status string

const (
	StatusDisabled Status = "disabled"
	StatusSyncing  Status = "syncing"
	StatusReady    Status = "ready"
	StatusError    Status = "error"
)

// MaskKey shows the first and last four characters of a sync key.
func MaskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 8 {
		return key
	}
	return string(runes[:4]) + "·" + string(runes[len(runes)-4:])
}

// APIError is a non-2xx answer from the sync API. Code carries the error
// code from the response body when one was sent.
type APIError struct {
	Op     string
	Status int
	Code   string
}

func (e *APIError) Error() string {
	code := e.Code
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", e.Status)
	}
	if e.Op == "" {
		return "sync api: " + code
	}
	return fmt.Sprintf("sync %s failed: %s", e.Op, code)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case apperrors.ErrMissingSyncKey:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrInvalidSyncKey:
		return e.Status == http.StatusForbidden
	case apperrors.ErrEmptyPayload:
		return e.Code == CodeEmptyPayload
	case apperrors.ErrInvalidJSON:
		return e.Code == CodeInvalidJSON
	case apperrors.ErrInvalidContentType:
		return e.Status == http.StatusUnsupportedMediaType
	}
	return false
}

// Error codes returned by the sync API.
const (
	CodeMissingSyncKey     = "MISSING_SYNC_KEY"
	CodeInvalidSyncKey     = "INVALID_SYNC_KEY"
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeEmptyPayload       = "EMPTY_PAYLOAD"
	CodeRegistrationFailed = "REGISTRATION_FAILED"
)

// HeaderSyncKey carries the account credential on every storage call.
const HeaderSyncKey = "X-Sync-Key"

// MaxBatchRecords caps how many records one push request may store.
const MaxBatchRecords = 20

// MaxLabelLength caps the optional registration label.
const MaxLabelLength = 64
