package core_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/core"
)

// plainMedium implements core.Medium without core.Watchable.
type plainMedium struct {
	items map[string]string
	err   error
}

func (m *plainMedium) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *plainMedium) SetItem(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = value
	return nil
}

func (m *plainMedium) RemoveItem(ctx context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func (m *plainMedium) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// upstreamMedium hands out a channel the test controls.
type upstreamMedium struct {
	plainMedium
	upstream chan core.Event
}

func (m *upstreamMedium) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return m.upstream, nil
}

func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(nil)

	assert.False(t, store.Available())

	_, ok, err := store.Read(ctx, "properties")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, "properties", "[]"), "writes are dropped silently")
	require.NoError(t, store.Remove(ctx, "properties"))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Watch(ctx, "*")
	assert.ErrorIs(t, err, core.ErrUnavailable)

	called := false
	require.NoError(t, store.OnExternalChange(ctx, "properties", func(core.Event) { called = true }))
	assert.False(t, called)
}

func TestStore_EmptyKey(t *testing.T) {
	store := core.NewStore(memory.New())
	ctx := context.Background()

	_, _, err := store.Read(ctx, "")
	assert.ErrorIs(t, err, core.ErrEmptyKey)
	assert.ErrorIs(t, store.Write(ctx, "", "x"), core.ErrEmptyKey)
	assert.ErrorIs(t, store.Remove(ctx, ""), core.ErrEmptyKey)
	assert.ErrorIs(t, store.OnExternalChange(ctx, "", func(core.Event) {}), core.ErrEmptyKey)
}

func TestStore_WriteErrorPropagates(t *testing.T) {
	boom := errors.New("quota")
	store := core.NewStore(&plainMedium{items: map[string]string{}, err: boom})

	err := store.Write(context.Background(), "properties", "[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestStore_NotWatchable(t *testing.T) {
	store := core.NewStore(&plainMedium{items: map[string]string{}})
	ctx := context.Background()

	_, err := store.Watch(ctx, "*")
	assert.ErrorIs(t, err, core.ErrNotWatchable)
	assert.NoError(t, store.OnExternalChange(ctx, "properties", func(core.Event) {}))
}

func TestStore_WatchDecouplesSlowConsumer(t *testing.T) {
	medium := &upstreamMedium{
		plainMedium: plainMedium{items: map[string]string{}},
		upstream:    make(chan core.Event),
	}
	store := core.NewStore(medium, core.WithEventBuffer(10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			select {
			case medium.upstream <- core.Event{Key: "k"}:
			case <-time.After(time.Second):
				t.Error("producer blocked")
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for producer")
	}

	for i := 0; i < 5; i++ {
		select {
		case <-stream:
		case <-time.After(time.Second):
			t.Fatal("failed to read buffered events")
		}
	}
}

func TestStore_OnExternalChange(t *testing.T) {
	shared := memory.NewShared()
	admin := core.NewStore(shared.Tab())
	public := core.NewStore(shared.Tab())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan core.Event, 4)
	require.NoError(t, public.OnExternalChange(ctx, "testimonials", func(e core.Event) {
		received <- e
	}))

	var ownCalls atomic.Int32
	require.NoError(t, admin.OnExternalChange(ctx, "testimonials", func(core.Event) {
		ownCalls.Add(1)
	}))

	require.NoError(t, admin.Write(ctx, "properties", "[]"))
	require.NoError(t, admin.Write(ctx, "testimonials", `[{"id":"test-1"}]`))

	select {
	case e := <-received:
		assert.Equal(t, "testimonials", e.Key)
		assert.Equal(t, `[{"id":"test-1"}]`, e.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for external change")
	}

	select {
	case e := <-received:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Zero(t, ownCalls.Load())
}

func TestStore_State(t *testing.T) {
	state := core.NewStore(memory.New(), core.WithEventBuffer(7)).State().(core.StoreState)
	assert.True(t, state.Available)
	assert.Equal(t, "memory", state.MediumType)
	assert.Equal(t, 7, state.EventBufferSize)

	state = core.NewStore(nil).State().(core.StoreState)
	assert.False(t, state.Available)
	assert.Equal(t, "none", state.MediumType)
}
