package memory

import (
	"github.com/aretw0/introspection"
)

// TabState exposes internal state for observability.
type TabState struct {
	TabID    string `json:"tab_id"`
	Tabs     int    `json:"tabs"`
	Keys     int    `json:"keys"`
	Bytes    int    `json:"bytes"`
	Quota    int    `json:"quota,omitempty"`
	Watchers int    `json:"watchers"`
	Dropped  int    `json:"dropped_events"`
}

// State implements introspection.Introspectable.
func (t *Tab) State() any {
	s := t.shared
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TabState{
		TabID:    t.id,
		Tabs:     len(s.tabs),
		Keys:     len(s.items),
		Bytes:    s.size(""),
		Quota:    s.quota,
		Watchers: len(t.watchers),
		Dropped:  s.dropped,
	}
}

// ComponentType implements introspection.Component.
func (t *Tab) ComponentType() string {
	return "memory"
}

var _ introspection.Introspectable = (*Tab)(nil)
var _ introspection.Component = (*Tab)(nil)
