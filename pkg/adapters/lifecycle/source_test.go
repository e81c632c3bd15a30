package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/core"
)

func TestSource(t *testing.T) {
	t.Run("Emits Changes From Other Tabs", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shared := memory.NewShared()
		watching := core.NewStore(shared.Tab())
		writing := core.NewStore(shared.Tab())

		src := NewSource(watching, "*")
		require.NoError(t, src.Start(ctx))

		require.NoError(t, writing.Write(ctx, "testimonials", "[]"))

		select {
		case e := <-src.Events():
			assert.Equal(t, "SET testimonials", e.String())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}

		cancel()
		assert.Eventually(t, func() bool {
			_, ok := <-src.Events()
			return !ok
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("Fails Without Medium", func(t *testing.T) {
		src := NewSource(core.NewStore(nil), "*")
		err := src.Start(context.Background())
		assert.ErrorIs(t, err, core.ErrUnavailable)

		_, ok := <-src.Events()
		assert.False(t, ok)
	})
}
