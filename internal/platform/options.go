package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/estate/pkg/core"
)

// Adapter names.
const (
	AdapterFS     = "fs"
	AdapterMemory = "memory"
	AdapterRedis  = "redis"
)

// options holds the internal configuration for opening a store.
type options struct {
	medium       core.Medium
	logger       *slog.Logger
	adapter      string
	mustExist    bool
	readOnly     bool
	forceTemp    bool
	eventBuffer  int
	debounce     time.Duration
	errorHandler func(error)
	redis        redisOptions
}

type redisOptions struct {
	password string
	db       int
	prefix   string
}

// Option defines a functional option for opening a store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
	}
}

// WithLogger sets the logger for the store and its medium.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMedium injects a medium (e.g. a mock or a shared memory tab).
// If provided, the adapter is not consulted.
func WithMedium(m core.Medium) Option {
	return func(o *options) {
		o.medium = m
	}
}

// WithAdapter selects the medium by name: "fs", "memory" or "redis".
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly opens the fs medium read-only: writes return core.ErrReadOnly
// and the data directory is never created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithForceTemp re-roots the fs data directory under the system temp
// directory, keeping experiments away from real data.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithEventBuffer sets the size of the event broker buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithDebounce sets how long the fs watcher coalesces bursts of events.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the fs
// watch loop (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithRedis sets the credentials, database and key prefix of the redis
// medium. The address is the URI given to New.
func WithRedis(password string, db int, prefix string) Option {
	return func(o *options) {
		o.redis = redisOptions{password: password, db: db, prefix: prefix}
	}
}
