package domain

import "time"

// Key names one locally persisted JSON blob.
type Key string

const (
	KeyTimeboxes Key = "timeboxes"
	KeySessions  Key = "sessions"
	KeySettings  Key = "settings"
	KeyStats     Key = "stats"
	KeyLaterList Key = "laterList"

	// KeySyncState holds the device's cloud sync bookkeeping and never leaves it.
	KeySyncState Key = "cloud-sync-state"
)

// CacheRetention bounds how long the auxiliary record cache keeps a copy.
const CacheRetention = 30 * 24 * time.Hour

var syncable = []Key{KeyTimeboxes, KeySessions, KeySettings, KeyStats, KeyLaterList}

// SyncableKeys lists the records exchanged with the remote store.
func SyncableKeys() []Key {
	out := make([]Key, len(syncable))
	copy(out, syncable)
	return out
}

func (k Key) Syncable() bool {
	for _, candidate := range syncable {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKey maps a remote record name onto a syncable key.
func ParseKey(raw string) (Key, bool) {
	k := Key(raw)
	if !k.Syncable() {
		return "", false
	}
	return k, true
}

// CachedRecord is the auxiliary copy of a blob kept for recovery.
type CachedRecord struct {
	Key        Key
	Value      []byte
	RecordedAt time.Time
}
