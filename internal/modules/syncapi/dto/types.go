package dto

import "encoding/json"

type RegisterInput struct {
	ContentType string
	Body        []byte
}

type RegisterOutput struct {
	SyncKey string `json:"syncKey"`
}

type PullInput struct {
	SyncKey string
}

type Record struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt int64           `json:"updatedAt"`
}

type PullOutput struct {
	Records  []Record `json:"records"`
	PulledAt int64    `json:"pulledAt"`
}

type PushInput struct {
	SyncKey     string
	ContentType string
	Body        []byte
}

type PushOutput struct {
	Saved     int   `json:"saved"`
	UpdatedAt int64 `json:"updatedAt"`
}
