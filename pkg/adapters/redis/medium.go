// Package redis stores keys as Redis strings and reports changes through a
// pub/sub channel, so every process pointed at the same server shares one
// record space.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/estate/pkg/core"
)

// DefaultPrefix namespaces the keys written by the medium.
const DefaultPrefix = "estate:"

// Config holds the configuration for the Redis medium.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key. Empty means DefaultPrefix.
	Prefix string
	Logger *slog.Logger
	// Client overrides Addr, Password and DB with an existing connection.
	Client goredis.UniversalClient
}

// Medium implements core.Medium and core.Watchable on a Redis server.
type Medium struct {
	client goredis.UniversalClient
	prefix string
	origin string
	logger *slog.Logger
	owned  bool

	mu            sync.RWMutex
	watchers      int
	eventsEmitted int
	lastEvent     *time.Time
}

// message is published on the change channel for every write or removal.
type message struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Origin string `json:"origin"`
	Remove bool   `json:"remove,omitempty"`
}

// New creates a Redis medium. It does not contact the server; use Ping.
func New(config Config) *Medium {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}

	m := &Medium{
		client: config.Client,
		prefix: config.Prefix,
		origin: uuid.NewString(),
		logger: config.Logger,
	}
	if m.client == nil {
		m.client = goredis.NewClient(&goredis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		})
		m.owned = true
	}
	return m
}

// Ping checks the connection.
func (m *Medium) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Close releases the connection if the medium created it.
func (m *Medium) Close() error {
	if !m.owned {
		return nil
	}
	return m.client.Close()
}

// Channel is the pub/sub channel carrying change notifications.
func (m *Medium) Channel() string {
	return m.prefix + "changes"
}

func (m *Medium) redisKey(key string) string {
	return m.prefix + key
}

// GetItem reads key.
func (m *Medium) GetItem(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, core.ErrEmptyKey
	}
	val, err := m.client.Get(ctx, m.redisKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, true, nil
}

// SetItem writes key and announces the change.
func (m *Medium) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return core.ErrEmptyKey
	}
	payload, err := m.encode(message{Key: key, Value: value})
	if err != nil {
		return err
	}
	_, err = m.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, m.redisKey(key), value, 0)
		pipe.Publish(ctx, m.Channel(), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key and announces the change.
func (m *Medium) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return core.ErrEmptyKey
	}
	payload, err := m.encode(message{Key: key, Remove: true})
	if err != nil {
		return err
	}
	_, err = m.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, m.redisKey(key))
		pipe.Publish(ctx, m.Channel(), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys under the prefix.
func (m *Medium) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := m.client.Scan(ctx, 0, m.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := strings.TrimPrefix(iter.Val(), m.prefix)
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Medium) encode(msg message) (string, error) {
	msg.Origin = m.origin
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode change message: %w", err)
	}
	return string(data), nil
}

// decode turns a channel payload into an event. It returns false for
// malformed payloads, the medium's own writes and keys outside pattern.
func (m *Medium) decode(payload, pattern string) (core.Event, bool) {
	var msg message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		m.logger.Warn("ignoring malformed change message", "error", err)
		return core.Event{}, false
	}
	if msg.Key == "" || msg.Origin == m.origin {
		return core.Event{}, false
	}
	if match, _ := doublestar.Match(pattern, msg.Key); !match {
		return core.Event{}, false
	}

	e := core.Event{Type: core.EventSet, Key: msg.Key, Value: msg.Value, Timestamp: time.Now().Unix()}
	if msg.Remove {
		e.Type = core.EventRemove
		e.Value = ""
	}
	return e, true
}

var (
	_ core.Medium    = (*Medium)(nil)
	_ core.Watchable = (*Medium)(nil)
)
