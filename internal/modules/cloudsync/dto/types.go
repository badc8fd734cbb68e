package dto

type StatusOutput struct {
	Status     string
	SyncKey    string
	MaskedKey  string
	LastError  string
	LastSyncAt int64
	Versions   map[string]int64
}

type PullOutput struct {
	Applied  int
	PulledAt int64
}

type EventOutput struct {
	Type      string
	Key       string
	Timestamp int64
	Applied   int
	Error     string
}
