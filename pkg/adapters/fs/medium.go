// Package fs stores each key as a JSON file in a directory.
//
// Several processes may open the same directory; each one sees the others'
// writes through Watch, which is backed by fsnotify.
package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/estate/pkg/core"
)

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid key")

// Extension is appended to every key to form its file name.
const Extension = ".json"

// Config holds the configuration for the filesystem medium.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	// Debounce coalesces bursts of filesystem events per key. Zero means 50ms.
	Debounce time.Duration
	// ErrorHandler receives watcher runtime errors which are otherwise only logged.
	ErrorHandler func(error)
}

// Medium implements core.Medium and core.Watchable on a directory.
type Medium struct {
	Path   string
	config Config

	mu            sync.RWMutex
	own           map[string]ownWrite
	watchers      int
	lastEvent     *time.Time
	eventsEmitted int
}

// ownWrite remembers the last change this handle made to a key so the watcher
// can tell it apart from changes made by other processes.
type ownWrite struct {
	removed bool
	sum     [sha256.Size]byte
}

// NewMedium creates a filesystem medium. Call Initialize before use.
func NewMedium(config Config) *Medium {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Medium{
		Path:   config.Path,
		config: config,
		own:    make(map[string]ownWrite),
	}
}

// Initialize ensures the directory exists.
func (m *Medium) Initialize(ctx context.Context) error {
	if m.config.MustExist || m.config.ReadOnly {
		info, err := os.Stat(m.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", m.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", m.Path)
		}
		return nil
	}

	if err := os.MkdirAll(m.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (m *Medium) filename(key string) (string, error) {
	if key == "" {
		return "", core.ErrEmptyKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, TempFilePrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(m.Path, key+Extension), nil
}

// GetItem reads the file for key.
func (m *Medium) GetItem(ctx context.Context, key string) (string, bool, error) {
	path, err := m.filename(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// SetItem writes the file for key atomically.
func (m *Medium) SetItem(ctx context.Context, key, value string) error {
	if m.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := m.filename(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := writeFileAtomic(path, []byte(value), 0644); err != nil {
		return err
	}
	m.own[key] = ownWrite{sum: sha256.Sum256([]byte(value))}
	return nil
}

// RemoveItem deletes the file for key.
func (m *Medium) RemoveItem(ctx context.Context, key string) error {
	if m.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := m.filename(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	m.own[key] = ownWrite{removed: true}
	return nil
}

// Keys lists the keys that have a file in the directory.
func (m *Medium) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(m.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", m.Path, err)
	}
	var keys []string
	for _, e := range entries {
		if key, ok := keyFromName(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// keyFromName maps a file name back to its key.
func keyFromName(name string) (string, bool) {
	if !strings.HasSuffix(name, Extension) || strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	key := strings.TrimSuffix(name, Extension)
	if key == "" {
		return "", false
	}
	return key, true
}

// isOwn reports whether the current state of key is the one this handle wrote.
// A state it did not write means another handle changed the key since, so the
// record of the own write is dropped: the same content written again by
// someone else must be reported.
func (m *Medium) isOwn(key string, removed bool, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.own[key]
	if !ok {
		return false
	}
	own := removed && w.removed
	if !removed && !w.removed {
		own = w.sum == sha256.Sum256([]byte(value))
	}
	if !own {
		delete(m.own, key)
	}
	return own
}

var (
	_ core.Medium    = (*Medium)(nil)
	_ core.Watchable = (*Medium)(nil)
)
