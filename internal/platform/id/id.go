package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID yields random (version 4) UUIDs in canonical form.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// CompactUUID yields version 4 UUIDs with the hyphens stripped; used for sync keys.
type CompactUUID struct{}

func (CompactUUID) New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
