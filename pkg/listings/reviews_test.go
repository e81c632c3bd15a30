package listings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/core"
	"github.com/aretw0/estate/pkg/listings"
)

func TestTestimonials(t *testing.T) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		c, _ := newCatalog(t)
		r, err := c.AddTestimonial(ctx, "Grace Banda", 5, "Quick and honest.")
		require.NoError(t, err)

		assert.Equal(t, "test-1700000000000", r.ID)
		assert.Equal(t, "avatar-1700000000000", r.AvatarImage.ID)
		assert.Equal(t, "https://picsum.photos/seed/1700000000000/100/100", r.AvatarImage.URL)
		assert.Equal(t, "Avatar of Grace Banda", r.AvatarImage.Description)
		assert.Equal(t, "person portrait", r.AvatarImage.Hint)

		all := c.Testimonials(ctx)
		require.Len(t, all, 4)
		assert.Equal(t, r, all[3])
	})

	t.Run("Rejects Incomplete Reviews", func(t *testing.T) {
		c, store := newCatalog(t)
		cases := []struct {
			name    string
			rating  int
			comment string
		}{
			{"", 5, "comment"},
			{"Name", 5, "   "},
			{"Name", 0, "comment"},
			{"Name", 6, "comment"},
		}
		for _, tc := range cases {
			_, err := c.AddTestimonial(ctx, tc.name, tc.rating, tc.comment)
			assert.ErrorIs(t, err, listings.ErrValidation, "%+v", tc)
		}
		_, ok, _ := store.Read(ctx, listings.KeyTestimonials)
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		c, _ := newCatalog(t)
		require.NoError(t, c.DeleteTestimonial(ctx, "test-2"))

		var got []string
		for _, r := range c.Testimonials(ctx) {
			got = append(got, r.ID)
		}
		assert.Equal(t, []string{"test-1", "test-3"}, got)
		assert.ErrorIs(t, c.DeleteTestimonial(ctx, "test-2"), listings.ErrNotFound)
	})

	t.Run("Malformed Saved Value Falls Back", func(t *testing.T) {
		c, store := newCatalog(t)
		require.NoError(t, store.Write(ctx, listings.KeyTestimonials, `{"not":"an array"}`))
		assert.Equal(t, listings.DefaultTestimonials(), c.Testimonials(ctx))

		require.NoError(t, store.Write(ctx, listings.KeyTestimonials, `[{`))
		assert.Equal(t, listings.DefaultTestimonials(), c.Testimonials(ctx))
	})

	t.Run("Watch Other Tab", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shared := memory.NewShared()
		public, err := listings.NewCatalog(core.NewStore(shared.Tab()))
		require.NoError(t, err)
		admin, err := listings.NewCatalog(core.NewStore(shared.Tab()))
		require.NoError(t, err)

		updates := make(chan []listings.Testimonial, 1)
		require.NoError(t, public.WatchTestimonials(ctx, func(ts []listings.Testimonial) {
			updates <- ts
		}))

		require.NoError(t, admin.DeleteTestimonial(ctx, "test-1"))

		select {
		case ts := <-updates:
			assert.Len(t, ts, 2)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for update")
		}
	})
}
