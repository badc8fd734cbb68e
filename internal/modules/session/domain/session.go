package domain

import (
	"fmt"
	"strings"

	timeboxdomain "timebox/internal/modules/timebox/domain"
	apperrors "timebox/internal/platform/errors"
)

const SchemaVersion = 1

type Notes struct {
	Learned string `json:"learned"`
	Stuck   string `json:"stuck"`
	Next    string `json:"next"`
}

type UrgeOutcome string

const (
	UrgeStayed UrgeOutcome = "stayed"
	UrgeLeft   UrgeOutcome = "left"
)

func ParseUrgeOutcome(raw string) (UrgeOutcome, error) {
	switch o := UrgeOutcome(strings.ToLower(strings.TrimSpace(raw))); o {
	case UrgeStayed, UrgeLeft:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown urge outcome %q", apperrors.ErrInvalidInput, raw)
	}
}

// Session records one focus period. Epochs are milliseconds since the Unix
// epoch; EndEpoch is zero until the session is stopped.
type Session struct {
	ID               string             `json:"id"`
	TimeboxID        string             `json:"timeboxId"`
	StartEpoch       int64              `json:"startEpoch"`
	EndEpoch         int64              `json:"endEpoch,omitempty"`
	DurationSec      int                `json:"durationSec"`
	Type             timeboxdomain.Type `json:"type"`
	UrgeDelays       int                `json:"urgeDelays"`
	Discomforts      []string           `json:"discomforts"`
	Notes            Notes              `json:"notes"`
	MinOutputAssets  []string           `json:"minOutputAssets,omitempty"`
	Completed        bool               `json:"completed,omitempty"`
	UrgeDelayOutcome UrgeOutcome        `json:"urgeDelayOutcome,omitempty"`
}

// NormalizeSessions fills fields older stored sessions may lack.
func NormalizeSessions(sessions []Session) []Session {
	for i := range sessions {
		if sessions[i].Type == "" {
			sessions[i].Type = timeboxdomain.TypeInput
		}
		if sessions[i].Discomforts == nil {
			sessions[i].Discomforts = []string{}
		}
	}
	return sessions
}

func IndexOf(sessions []Session, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}
