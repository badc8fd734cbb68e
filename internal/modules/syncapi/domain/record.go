package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

const (
	// MaxBatchRecords caps how many records a single write stores. Extra
	// records are dropped without an error.
	MaxBatchRecords = 20
	MaxLabelLength  = 64
)

type Account struct {
	ID         string
	Label      string
	CreatedAt  int64
	UpdatedAt  int64
	LastSeenAt int64
}

// StoredRecord is one named blob of an account. Value holds JSON text.
type StoredRecord struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt int64           `json:"updatedAt"`
}

// IncomingRecord is a normalized write. HasUpdatedAt is false when the
// client sent no usable timestamp.
type IncomingRecord struct {
	Key          string
	Value        json.RawMessage
	UpdatedAt    int64
	HasUpdatedAt bool
}

// EffectiveUpdatedAt floors the client timestamp at server time, so a
// record can never be stored as older than its arrival.
func (r IncomingRecord) EffectiveUpdatedAt(now int64) int64 {
	if !r.HasUpdatedAt || r.UpdatedAt < now {
		return now
	}
	return r.UpdatedAt
}

// NormalizeLabel trims the label and caps it; a blank label yields "".
func NormalizeLabel(raw string) string {
	label := strings.TrimSpace(raw)
	runes := []rune(label)
	if len(runes) > MaxLabelLength {
		label = string(runes[:MaxLabelLength])
	}
	return label
}

// NormalizeRecords accepts a single record object, a bare array of
// records, or an object with a records array. Entries without a non-empty
// string key are discarded. payload must be valid JSON.
func NormalizeRecords(payload []byte) []IncomingRecord {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		return normalizeList(trimmed)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil
		}
		if list, ok := fields["records"]; ok && isArray(list) {
			return normalizeList(list)
		}
		if record, ok := normalizeSingle(fields); ok {
			return []IncomingRecord{record}
		}
	}
	return nil
}

// Limit keeps the first MaxBatchRecords records.
func Limit(records []IncomingRecord) []IncomingRecord {
	if len(records) > MaxBatchRecords {
		return records[:MaxBatchRecords]
	}
	return records
}

func normalizeList(raw []byte) []IncomingRecord {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	out := make([]IncomingRecord, 0, len(entries))
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if !isObject(entry) || json.Unmarshal(entry, &fields) != nil {
			continue
		}
		if record, ok := normalizeSingle(fields); ok {
			out = append(out, record)
		}
	}
	return out
}

func normalizeSingle(fields map[string]json.RawMessage) (IncomingRecord, bool) {
	var key string
	if err := json.Unmarshal(fields["key"], &key); err != nil || key == "" {
		return IncomingRecord{}, false
	}
	record := IncomingRecord{Key: key, Value: json.RawMessage("null")}
	if value, ok := fields["value"]; ok && len(bytes.TrimSpace(value)) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, value); err == nil {
			record.Value = compact.Bytes()
		}
	}
	var updatedAt float64
	if raw, ok := fields["updatedAt"]; ok && json.Unmarshal(raw, &updatedAt) == nil {
		if !math.IsNaN(updatedAt) && !math.IsInf(updatedAt, 0) && updatedAt < math.MaxInt64 && updatedAt > math.MinInt64 {
			record.UpdatedAt = int64(updatedAt)
			record.HasUpdatedAt = true
		}
	}
	return record, true
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
