package redis

import (
	"time"

	"github.com/aretw0/introspection"
)

// MediumState exposes internal state for observability.
type MediumState struct {
	Prefix        string     `json:"prefix"`
	Channel       string     `json:"channel"`
	Origin        string     `json:"origin"`
	Watchers      int        `json:"watchers"`
	EventsEmitted int        `json:"events_emitted"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MediumState{
		Prefix:        m.prefix,
		Channel:       m.Channel(),
		Origin:        m.origin,
		Watchers:      m.watchers,
		EventsEmitted: m.eventsEmitted,
		LastEvent:     m.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "redis"
}

var _ introspection.Introspectable = (*Medium)(nil)
var _ introspection.Component = (*Medium)(nil)

func (m *Medium) setWatcherActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if active {
		m.watchers++
	} else if m.watchers > 0 {
		m.watchers--
	}
}

func (m *Medium) recordEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.lastEvent = &now
	m.eventsEmitted++
}
