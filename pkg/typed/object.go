package typed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/estate/pkg/core"
)

// Object is a single record stored under one key. Stored fields override the
// default's fields one level deep, so fields added to the default after a value
// was persisted still show up.
type Object[T any] struct {
	store    *core.Store
	key      string
	defaults map[string]json.RawMessage
}

// NewObject creates a typed object. T must marshal to a JSON object.
func NewObject[T any](store *core.Store, key string, defaults T) (*Object[T], error) {
	if key == "" {
		return nil, core.ErrEmptyKey
	}
	data, err := json.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults for %s: %w", key, err)
	}
	fields, err := decodeFields(data)
	if err != nil {
		return nil, fmt.Errorf("defaults for %s: %w", key, err)
	}
	return &Object[T]{store: store, key: key, defaults: fields}, nil
}

// Key returns the storage key.
func (o *Object[T]) Key() string {
	return o.key
}

// Defaults returns a fresh copy of the default value.
func (o *Object[T]) Defaults() T {
	v, _ := o.merge(nil)
	return v
}

// Decode merges a serialized object over the defaults.
func (o *Object[T]) Decode(raw string) (T, error) {
	fields, err := decodeFields([]byte(raw))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode %s: %w", o.key, err)
	}
	return o.merge(fields)
}

// Load returns the stored value merged over the defaults, or the defaults when
// nothing usable is stored.
func (o *Object[T]) Load(ctx context.Context) T {
	raw, ok, err := o.store.Read(ctx, o.key)
	if err != nil {
		o.store.Logger().Warn("failed to read object, using defaults", "key", o.key, "error", err)
		return o.Defaults()
	}
	if !ok {
		return o.Defaults()
	}

	v, err := o.Decode(raw)
	if err != nil {
		o.store.Logger().Warn("failed to parse object, using defaults", "key", o.key, "error", err)
		return o.Defaults()
	}
	return v
}

// Save replaces the stored value.
func (o *Object[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", o.key, err)
	}
	return o.store.Write(ctx, o.key, string(data))
}

// Reset writes the defaults.
func (o *Object[T]) Reset(ctx context.Context) error {
	return o.Save(ctx, o.Defaults())
}

// OnChange calls fn with the merged value whenever another context writes the
// key. Removals and unparseable values are skipped.
func (o *Object[T]) OnChange(ctx context.Context, fn func(T)) error {
	return o.store.OnExternalChange(ctx, o.key, func(e core.Event) {
		if e.Type != core.EventSet || e.Value == "" {
			return
		}
		v, err := o.Decode(e.Value)
		if err != nil {
			o.store.Logger().Warn("failed to parse updated object", "key", o.key, "error", err)
			return
		}
		fn(v)
	})
}

func (o *Object[T]) merge(fields map[string]json.RawMessage) (T, error) {
	merged := make(map[string]json.RawMessage, len(o.defaults)+len(fields))
	for k, v := range o.defaults {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	var v T
	data, err := json.Marshal(merged)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode merged %s: %w", o.key, err)
	}
	return v, nil
}

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid json")
		}
		return nil, fmt.Errorf("not an object: %w", ErrShape)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
