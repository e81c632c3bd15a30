package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/core"
)

func TestTab_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	tab := memory.New()

	_, ok, err := tab.GetItem(ctx, "properties")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tab.SetItem(ctx, "properties", "[]"))
	v, ok, err := tab.GetItem(ctx, "properties")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, tab.SetItem(ctx, "siteContent", "{}"))
	keys, err := tab.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"properties", "siteContent"}, keys)

	require.NoError(t, tab.RemoveItem(ctx, "properties"))
	require.NoError(t, tab.RemoveItem(ctx, "properties"), "removing a missing key is not an error")
	_, ok, _ = tab.GetItem(ctx, "properties")
	assert.False(t, ok)
}

func TestTab_SharedSpace(t *testing.T) {
	ctx := context.Background()
	shared := memory.NewShared()
	a, b := shared.Tab(), shared.Tab()

	require.NoError(t, a.SetItem(ctx, "testimonials", `[{"id":"t1"}]`))
	v, ok, err := b.GetItem(ctx, "testimonials")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, v)
}

func TestTab_Quota(t *testing.T) {
	ctx := context.Background()
	tab := memory.New(memory.WithQuota(16))

	require.NoError(t, tab.SetItem(ctx, "k", "0123456789"))
	err := tab.SetItem(ctx, "k2", "0123456789")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrQuotaExceeded))

	// Overwriting a key only counts its new size.
	require.NoError(t, tab.SetItem(ctx, "k", "01234567890123"))
}

func TestTab_WatchSkipsOwnWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	shared := memory.NewShared()
	writer, reader := shared.Tab(), shared.Tab()

	ctx, cancel := context.WithCancel(context.Background())
	own, err := writer.Watch(ctx, "*")
	require.NoError(t, err)
	other, err := reader.Watch(ctx, "testimonials")
	require.NoError(t, err)

	require.NoError(t, writer.SetItem(ctx, "properties", "[]"))
	require.NoError(t, writer.SetItem(ctx, "testimonials", `["x"]`))
	require.NoError(t, writer.RemoveItem(ctx, "testimonials"))

	select {
	case e := <-other:
		assert.Equal(t, core.EventSet, e.Type)
		assert.Equal(t, "testimonials", e.Key)
		assert.Equal(t, `["x"]`, e.Value)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for set event")
	}

	select {
	case e := <-other:
		assert.Equal(t, core.EventRemove, e.Type)
		assert.Empty(t, e.Value)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for remove event")
	}

	select {
	case e := <-own:
		t.Fatalf("writer received its own event: %v", e)
	default:
	}

	cancel()
	for range own {
	}
	for range other {
	}
}

func TestTab_WatchInvalidPattern(t *testing.T) {
	_, err := memory.New().Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestTab_State(t *testing.T) {
	ctx := context.Background()
	shared := memory.NewShared(memory.WithQuota(100))
	tab := shared.Tab()
	shared.Tab()
	require.NoError(t, tab.SetItem(ctx, "ab", "cd"))

	state, ok := tab.State().(memory.TabState)
	require.True(t, ok)
	assert.Equal(t, 2, state.Tabs)
	assert.Equal(t, 1, state.Keys)
	assert.Equal(t, 4, state.Bytes)
	assert.Equal(t, 100, state.Quota)
	assert.Equal(t, "memory", tab.ComponentType())
}
