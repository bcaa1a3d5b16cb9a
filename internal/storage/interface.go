package storage

// Provider is a persistent string-keyed slot store. Values are opaque bytes;
// the application keeps its whole snapshot under a single key.
type Provider interface {
	// Lifecycle
	Init() error // create if missing, then open
	Load() error // open an existing store
	Close() error

	// Slots
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}
