// Package memory provides an in-process storage medium.
//
// A Shared space plays the role of a browser origin's local storage and each Tab
// is one browsing context attached to it: a write through one tab is reported to
// watchers on every other tab, never to the writer itself.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/estate/pkg/core"
)

// ErrQuotaExceeded is returned when a write would grow the space past its quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

const watcherBuffer = 64

// Shared is the storage space tabs attach to.
type Shared struct {
	mu      sync.RWMutex
	items   map[string]string
	tabs    map[string]*Tab
	quota   int
	dropped int
}

// Option configures a Shared space.
type Option func(*Shared)

// WithQuota limits the total size (keys plus values, in bytes) of the space.
// Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Shared) {
		s.quota = bytes
	}
}

// NewShared creates an empty space.
func NewShared(opts ...Option) *Shared {
	s := &Shared{
		items: make(map[string]string),
		tabs:  make(map[string]*Tab),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns a single tab over a private space.
func New(opts ...Option) *Tab {
	return NewShared(opts...).Tab()
}

// Tab opens a new context on the space.
func (s *Shared) Tab() *Tab {
	t := &Tab{
		id:     uuid.NewString(),
		shared: s,
	}
	s.mu.Lock()
	s.tabs[t.id] = t
	s.mu.Unlock()
	return t
}

func (s *Shared) size(exceptKey string) int {
	n := 0
	for k, v := range s.items {
		if k == exceptKey {
			continue
		}
		n += len(k) + len(v)
	}
	return n
}

// broadcast must be called with s.mu held.
func (s *Shared) broadcast(origin string, e core.Event) {
	for id, tab := range s.tabs {
		if id == origin {
			continue
		}
		for _, w := range tab.watchers {
			if ok, _ := doublestar.Match(w.pattern, e.Key); !ok {
				continue
			}
			select {
			case w.ch <- e:
			default:
				s.dropped++
			}
		}
	}
}

type watcher struct {
	pattern string
	ch      chan core.Event
}

// Tab is one context attached to a Shared space. It implements core.Medium and
// core.Watchable.
type Tab struct {
	id       string
	shared   *Shared
	watchers []*watcher // guarded by shared.mu
}

// ID returns the tab identifier.
func (t *Tab) ID() string {
	return t.id
}

func (t *Tab) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	t.shared.mu.RLock()
	defer t.shared.mu.RUnlock()
	v, ok := t.shared.items[key]
	return v, ok, nil
}

func (t *Tab) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.shared
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 && s.size(key)+len(key)+len(value) > s.quota {
		return fmt.Errorf("failed to set %s: %w", key, ErrQuotaExceeded)
	}
	s.items[key] = value
	s.broadcast(t.id, core.Event{
		Type:      core.EventSet,
		Key:       key,
		Value:     value,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

func (t *Tab) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := t.shared
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return nil
	}
	delete(s.items, key)
	s.broadcast(t.id, core.Event{
		Type:      core.EventRemove,
		Key:       key,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

func (t *Tab) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.shared.mu.RLock()
	defer t.shared.mu.RUnlock()
	keys := make([]string, 0, len(t.shared.items))
	for k := range t.shared.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch reports writes made by other tabs to keys matching pattern. Events
// that do not fit the watcher's buffer are dropped.
func (t *Tab) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	w := &watcher{pattern: pattern, ch: make(chan core.Event, watcherBuffer)}
	s := t.shared
	s.mu.Lock()
	t.watchers = append(t.watchers, w)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, other := range t.watchers {
			if other == w {
				t.watchers = append(t.watchers[:i], t.watchers[i+1:]...)
				break
			}
		}
		close(w.ch)
	}()

	return w.ch, nil
}

// Close detaches the tab from the space. Its watchers stop receiving events.
func (t *Tab) Close() {
	t.shared.mu.Lock()
	delete(t.shared.tabs, t.id)
	t.shared.mu.Unlock()
}

var (
	_ core.Medium    = (*Tab)(nil)
	_ core.Watchable = (*Tab)(nil)
)
