package storage

import (
	"encoding/json"

	"github.com/jmuslu/prodlog/internal/logger"
)

// LoadJSON decodes the blob stored under key into v. Missing keys and corrupt
// blobs both leave v untouched and return false: persisted data that cannot be
// read is treated as absent, never as an error the caller has to handle.
func LoadJSON(p Provider, key string, v interface{}) bool {
	data, ok, err := p.Get(key)
	if err != nil {
		logger.Warn("Failed to read stored value", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("Discarding corrupt stored value", "key", key, "error", err)
		return false
	}
	return true
}

// SaveJSON encodes v and writes it under key. Writes are best-effort: a
// failure is logged and the in-memory state stays authoritative until the
// next successful write.
func SaveJSON(p Provider, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to serialize value", "key", key, "error", err)
		return
	}
	if err := p.Set(key, data); err != nil {
		logger.Warn("Failed to persist value", "key", key, "error", err)
	}
}
