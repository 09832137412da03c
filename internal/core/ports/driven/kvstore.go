package driven

import "context"

// KVStore is a durable key-value slot.
// Values are opaque bytes; callers own the encoding.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// KVWatcher reports changes to a key made outside this process.
type KVWatcher interface {
	// Watch returns a channel that receives a value each time key changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}
