package domain

import (
	"errors"
	"net/http"
	"testing"

	storagedomain "timebox/internal/modules/storage/domain"
	apperrors "timebox/internal/platform/errors"
)

func TestMaskKey(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":                                 "",
		"abcd1234":                         "abcd1234",
		"abcd12345":                        "abcd·2345",
		"0123456789abcdef0123456789abwxyz": "0123·wxyz",
	}
	for in, want := range cases {
		if got := MaskKey(in); got != want {
			t.Fatalf("MaskKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStateAdvanceOnlyMovesForward(t *testing.T) {
	t.Parallel()
	var state State
	if !state.Advance(storagedomain.KeySettings, 100) {
		t.Fatalf("expected first advance to apply")
	}
	if state.Advance(storagedomain.KeySettings, 90) {
		t.Fatalf("expected older timestamp to be ignored")
	}
	if state.Advance(storagedomain.KeySettings, 100) {
		t.Fatalf("expected equal timestamp to be ignored")
	}
	if got := state.Version(storagedomain.KeySettings); got != 100 {
		t.Fatalf("expected version 100, got %d", got)
	}
	if got := state.Version(storagedomain.KeyStats); got != 0 {
		t.Fatalf("expected unknown record at version 0, got %d", got)
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	t.Parallel()
	state := NewState("key")
	state.Advance(storagedomain.KeyTimeboxes, 5)
	clone := state.Clone()
	clone.Advance(storagedomain.KeyTimeboxes, 9)
	if state.Version(storagedomain.KeyTimeboxes) != 5 {
		t.Fatalf("clone must not share the version map")
	}
}

func TestAPIErrorMapsStatusToSentinels(t *testing.T) {
	t.Parallel()
	missing := error(&APIError{Op: "pull", Status: http.StatusUnauthorized, Code: CodeMissingSyncKey})
	invalid := error(&APIError{Op: "pull", Status: http.StatusForbidden, Code: CodeInvalidSyncKey})
	if !errors.Is(missing, apperrors.ErrMissingSyncKey) || errors.Is(missing, apperrors.ErrInvalidSyncKey) {
		t.Fatalf("expected 401 to map to missing sync key only")
	}
	if !errors.Is(invalid, apperrors.ErrInvalidSyncKey) {
		t.Fatalf("expected 403 to map to invalid sync key")
	}
	if got := missing.Error(); got != "sync pull failed: MISSING_SYNC_KEY" {
		t.Fatalf("unexpected message %q", got)
	}
	bare := &APIError{Status: http.StatusBadGateway}
	if got := bare.Error(); got != "sync api: HTTP_502" {
		t.Fatalf("unexpected message %q", got)
	}
}
