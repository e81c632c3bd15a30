package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Available       bool   `json:"available"`
	MediumType      string `json:"medium_type"`
	EventBufferSize int    `json:"event_buffer_size"`
	Subscriptions   int    `json:"subscriptions"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mediumType := "none"
	if s.medium != nil {
		mediumType = "medium"
		if comp, ok := s.medium.(introspection.Component); ok {
			mediumType = comp.ComponentType()
		}
	}

	return StoreState{
		Available:       s.medium != nil,
		MediumType:      mediumType,
		EventBufferSize: s.eventBufferSize,
		Subscriptions:   s.subscriptions,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
