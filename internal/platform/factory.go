package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/estate/pkg/adapters/fs"
	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/adapters/redis"
	"github.com/aretw0/estate/pkg/core"
)

// New opens a store.
// The URI argument is adapter-specific: the data directory for "fs", the
// server address for "redis", ignored for "memory".
func New(ctx context.Context, uri string, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	medium, err := openMedium(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	var storeOpts []core.StoreOption
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithLogger(o.logger))
	}
	if o.eventBuffer > 0 {
		storeOpts = append(storeOpts, core.WithEventBuffer(o.eventBuffer))
	}
	return core.NewStore(medium, storeOpts...), nil
}

func openMedium(ctx context.Context, uri string, o *options) (core.Medium, error) {
	if o.medium != nil {
		return o.medium, nil
	}

	switch o.adapter {
	case AdapterFS, "":
		return openFS(ctx, uri, o)
	case AdapterMemory:
		return memory.New(), nil
	case AdapterRedis:
		return openRedis(ctx, uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// openFS handles the initialization logic for the filesystem adapter.
func openFS(ctx context.Context, path string, o *options) (core.Medium, error) {
	resolved := ResolveDataPath(path, o.forceTemp && !o.readOnly)
	if o.logger != nil && resolved != path {
		o.logger.Warn("using temporary data directory", "original_path", path, "resolved_path", resolved)
	}

	m := fs.NewMedium(fs.Config{
		Path:         resolved,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		Debounce:     o.debounce,
		ErrorHandler: o.errorHandler,
	})
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func openRedis(ctx context.Context, addr string, o *options) (core.Medium, error) {
	m := redis.New(redis.Config{
		Addr:     addr,
		Password: o.redis.password,
		DB:       o.redis.db,
		Prefix:   o.redis.prefix,
		Logger:   o.logger,
	})
	if err := m.Ping(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}
