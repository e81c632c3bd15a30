// Package core holds the record store shared by every storage medium.
package core

import "fmt"

// EventType represents the kind of change observed on a key.
type EventType string

const (
	EventSet    EventType = "SET"
	EventRemove EventType = "REMOVE"
)

// Event reports that a key was changed by another context sharing the medium.
// Value carries the new serialized value (empty on removal); consumers parse it
// themselves.
type Event struct {
	Type      EventType
	Key       string
	Value     string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
