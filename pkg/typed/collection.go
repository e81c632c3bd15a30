// Package typed provides type-safe views over a core.Store.
//
// A Collection maps one key to a JSON array of records; an Object maps one key to
// a single JSON object whose stored fields are merged over a default. Both fall
// back to their defaults whenever the stored value is missing or unusable.
package typed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/estate/pkg/core"
)

var (
	// ErrShape is returned when a stored value has the wrong top-level JSON type.
	ErrShape = errors.New("unexpected JSON shape")
	// ErrIncompatible is returned when a stored array holds elements that do not
	// decode into the record type.
	ErrIncompatible = errors.New("stored records do not match the record type")
)

// Collection is an ordered list of records stored under one key.
type Collection[T any] struct {
	store    *core.Store
	key      string
	defaults []byte
}

// NewCollection creates a typed collection. defaults is copied; later changes to
// the caller's slice do not affect the collection.
func NewCollection[T any](store *core.Store, key string, defaults []T) (*Collection[T], error) {
	if key == "" {
		return nil, core.ErrEmptyKey
	}
	if defaults == nil {
		defaults = []T{}
	}
	data, err := json.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults for %s: %w", key, err)
	}
	return &Collection[T]{store: store, key: key, defaults: data}, nil
}

// Key returns the storage key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Defaults returns a fresh copy of the default records.
func (c *Collection[T]) Defaults() []T {
	var items []T
	// defaults were produced by json.Marshal of []T
	_ = json.Unmarshal(c.defaults, &items)
	return items
}

// Decode parses a serialized collection.
func (c *Collection[T]) Decode(raw string) ([]T, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '[' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid json in %s", c.key)
		}
		return nil, fmt.Errorf("%s is not an array: %w", c.key, ErrShape)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid json in %s", c.key)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w: %w", c.key, ErrIncompatible, err)
	}
	return items, nil
}

// Load returns the stored records, or the defaults when nothing usable is
// stored. Unusable values are logged, never returned as errors.
func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		c.store.Logger().Warn("failed to read collection, using defaults", "key", c.key, "error", err)
		return c.Defaults()
	}
	if !ok {
		return c.Defaults()
	}

	items, err := c.Decode(raw)
	if err != nil {
		c.store.Logger().Warn("failed to parse collection, using defaults", "key", c.key, "error", err)
		return c.Defaults()
	}
	return items
}

// Seed writes the defaults when the key holds nothing, then returns the
// collection as Load would.
func (c *Collection[T]) Seed(ctx context.Context) ([]T, error) {
	_, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if !ok {
		if err := c.store.Write(ctx, c.key, string(c.defaults)); err != nil {
			return nil, err
		}
		c.store.Logger().Info("collection seeded", "key", c.key)
		return c.Defaults(), nil
	}
	return c.Load(ctx), nil
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.key, err)
	}
	return c.store.Write(ctx, c.key, string(data))
}

// Update loads the collection, applies fn and saves the result. Nothing is
// saved when fn fails. The cycle is not atomic: a concurrent writer in another
// context may be overwritten.
//
// A stored array whose elements do not fit T is never replaced: Update returns
// ErrIncompatible and leaves it as is. Missing or malformed values start from
// the defaults, as Load does.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	current, err := c.loadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	items, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := c.Save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T]) loadForUpdate(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if !ok {
		return c.Defaults(), nil
	}
	items, err := c.Decode(raw)
	if errors.Is(err, ErrIncompatible) {
		return nil, err
	}
	if err != nil {
		c.store.Logger().Warn("failed to parse collection, starting from defaults", "key", c.key, "error", err)
		return c.Defaults(), nil
	}
	return items, nil
}

// OnChange calls fn with the re-parsed collection whenever another context
// writes the key. Removals and unparseable values are skipped.
func (c *Collection[T]) OnChange(ctx context.Context, fn func([]T)) error {
	return c.store.OnExternalChange(ctx, c.key, func(e core.Event) {
		if e.Type != core.EventSet || e.Value == "" {
			return
		}
		items, err := c.Decode(e.Value)
		if err != nil {
			c.store.Logger().Warn("failed to parse updated collection", "key", c.key, "error", err)
			return
		}
		fn(items)
	})
}
