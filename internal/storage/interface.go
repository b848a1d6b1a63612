package storage

// Provider is the opaque key-value blob store every service persists through.
// Values are serialized entity blobs; the store never interprets them. A
// missing key is reported through the bool return, not an error, so callers
// can fall back to defaults without error plumbing.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
