package estate

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/estate/internal/platform"
	"github.com/aretw0/estate/pkg/core"
	"github.com/aretw0/estate/pkg/listings"
	"github.com/aretw0/estate/pkg/units"
)

// --- Types ---

// Store is the raw record store.
type Store = core.Store

// Catalog performs the agency's record operations.
type Catalog = listings.Catalog

// Unit is an area unit.
type Unit = units.Unit

// --- Configuration ---

// Option defines a functional option for opening a store.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
	AdapterRedis  = platform.AdapterRedis
)

// WithLogger sets the logger for the store and its medium.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMedium injects a custom storage medium.
func WithMedium(m core.Medium) Option {
	return platform.WithMedium(m)
}

// WithAdapter selects the storage medium by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the data directory read-only.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp re-roots the data directory under the system temp directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithEventBuffer sets the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithDebounce sets how long the directory watcher coalesces events.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler registers a callback for watcher runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithRedis sets the credentials, database and key prefix of the redis medium.
func WithRedis(password string, db int, prefix string) Option {
	return platform.WithRedis(password, db, prefix)
}

// --- Factory ---

// New opens a store. The URI is the data directory for the fs adapter and the
// server address for redis.
func New(ctx context.Context, uri string, opts ...Option) (*core.Store, error) {
	return platform.New(ctx, uri, opts...)
}

// OpenCatalog opens a store and the catalog over it.
func OpenCatalog(ctx context.Context, uri string, opts ...Option) (*listings.Catalog, error) {
	store, err := New(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}
	catalog, err := listings.NewCatalog(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return catalog, nil
}

// --- Utils ---

// Convert converts an area between units, rounded to 4 decimals.
func Convert(value float64, from, to Unit) float64 {
	return units.Convert(value, from, to)
}

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// FindRoot looks upwards from startDir for a directory holding a data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
