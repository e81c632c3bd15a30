package redis

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/estate/pkg/core"
)

// Watch subscribes to the change channel and reports writes made by other
// handles to keys matching pattern. The channel closes when ctx is cancelled.
func (m *Medium) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	sub := m.client.Subscribe(ctx, m.Channel())
	// Receive blocks until the subscription is confirmed, so writes made after
	// Watch returns are never missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", m.Channel(), err)
	}

	events := make(chan core.Event)
	m.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer m.setWatcherActive(false)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("subscription to %s closed", m.Channel())
				}
				e, ok := m.decode(msg.Payload, pattern)
				if !ok {
					continue
				}
				select {
				case events <- e:
					m.recordEvent()
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		m.logger.Error("redis watcher failed", "error", err)
	}))

	return events, nil
}
