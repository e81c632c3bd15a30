package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"
)

const defaultEventBuffer = 100

// Store is the record store over a Medium. A Store without a medium behaves as
// an empty, read-only store: reads find nothing and writes are dropped. This is
// the state of any context where persistent storage does not exist.
type Store struct {
	medium          Medium
	logger          *slog.Logger
	eventBufferSize int

	mu            sync.RWMutex
	subscriptions int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report recovered failures.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBuffer sets the size of the buffer between a medium's watcher and
// the consumer. Zero or negative keeps the default (100).
func WithEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewStore creates a Store. medium may be nil.
func NewStore(medium Medium, opts ...StoreOption) *Store {
	s := &Store{
		medium:          medium,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a persistent medium backs the store.
func (s *Store) Available() bool {
	return s.medium != nil
}

// Medium returns the underlying medium, or nil.
func (s *Store) Medium() Medium {
	return s.medium
}

// Logger returns the store's logger. It is never nil.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Read returns the raw value under key.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	if s.medium == nil {
		return "", false, nil
	}
	return s.medium.GetItem(ctx, key)
}

// Write replaces the raw value under key. It is a no-op without a medium.
func (s *Store) Write(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if s.medium == nil {
		return nil
	}
	if err := s.medium.SetItem(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.logger.Debug("key written", "key", key, "bytes", len(value))
	return nil
}

// Remove deletes key. It is a no-op without a medium.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if s.medium == nil {
		return nil
	}
	if err := s.medium.RemoveItem(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys. Without a medium the list is empty.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.medium == nil {
		return nil, nil
	}
	return s.medium.Keys(ctx)
}

// Watch observes writes to keys matching pattern made by other contexts.
// Events are buffered so a slow consumer does not stall the medium's watcher.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	if s.medium == nil {
		return nil, ErrUnavailable
	}
	w, ok := s.medium.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}

	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, s.eventBufferSize)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// OnExternalChange calls fn for every change to key made by another context
// until ctx is cancelled. When the medium cannot report changes the
// subscription is silently inactive.
//
// Delivery is best effort: concurrent writers overwrite each other and fn only
// sees the last value that reached the medium.
func (s *Store) OnExternalChange(ctx context.Context, key string, fn func(Event)) error {
	if key == "" {
		return ErrEmptyKey
	}

	events, err := s.Watch(ctx, key)
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNotWatchable) {
		s.logger.Debug("change subscription inactive", "key", key, "reason", err)
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.subscriptions++
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			s.mu.Lock()
			s.subscriptions--
			s.mu.Unlock()
		}()
		for e := range events {
			if e.Key != key {
				continue
			}
			fn(e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("change subscriber failed", "key", key, "error", err)
	}))

	return nil
}

// Close releases the medium's resources when it holds any.
func (s *Store) Close() error {
	if c, ok := s.medium.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
