package core

import "context"

// Medium is the persistent key-value storage the Store reads and writes.
// Values are opaque serialized strings. Implementations must be safe for
// concurrent use.
type Medium interface {
	// GetItem returns the raw value under key. ok is false when nothing is stored.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem replaces the value under key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
}

// Watchable is implemented by media that can report writes made by other
// contexts (processes, tabs, clients). Writes made through the same handle are
// not reported back to it.
type Watchable interface {
	// Watch emits events for keys matching pattern (doublestar syntax) until ctx
	// is cancelled, then closes the channel.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
