package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// MediumState exposes internal state for observability.
type MediumState struct {
	Path          string     `json:"path"`
	ReadOnly      bool       `json:"read_only"`
	Debounce      string     `json:"debounce"`
	TrackedKeys   int        `json:"tracked_keys"`
	Watchers      int        `json:"watchers"`
	EventsEmitted int        `json:"events_emitted"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MediumState{
		Path:          m.Path,
		ReadOnly:      m.config.ReadOnly,
		Debounce:      m.config.Debounce.String(),
		TrackedKeys:   len(m.own),
		Watchers:      m.watchers,
		EventsEmitted: m.eventsEmitted,
		LastEvent:     m.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "fs"
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
