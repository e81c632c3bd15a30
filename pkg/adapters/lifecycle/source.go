// Package lifecycle exposes store changes as a lifecycle event source.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/estate/pkg/core"
)

type storeSource struct {
	store   *core.Store
	pattern string
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits changes to keys matching
// pattern made by other contexts sharing the store's medium.
func NewSource(store *core.Store, pattern string) lifecycle.Source {
	return &storeSource{
		store:   store,
		pattern: pattern,
		out:     make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start subscribes to the store. It fails when the medium cannot report
// changes; the events channel is closed once ctx is cancelled.
func (s *storeSource) Start(ctx context.Context) error {
	events, err := s.store.Watch(ctx, s.pattern)
	if err != nil {
		close(s.out)
		return fmt.Errorf("failed to watch %q: %w", s.pattern, err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
