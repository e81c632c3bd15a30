package listings_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/estate/pkg/adapters/memory"
	"github.com/aretw0/estate/pkg/core"
	"github.com/aretw0/estate/pkg/listings"
	"github.com/aretw0/estate/pkg/typed"
	"github.com/aretw0/estate/pkg/units"
)

var fixedNow = time.UnixMilli(1700000000000)

func newCatalog(t *testing.T) (*listings.Catalog, *core.Store) {
	t.Helper()
	store := core.NewStore(memory.New())
	c, err := listings.NewCatalog(store, listings.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return c, store
}

func ids(ps []listings.Property) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestDefaults(t *testing.T) {
	props := listings.DefaultProperties()
	assert.Equal(t, []string{"comm-1", "res-1", "res-2", "comm-2"}, ids(props))
	assert.Equal(t, units.Quantity{Value: 5, Unit: units.Hectares}, props[0].Size)
	assert.Equal(t, 4.0, props[1].Bedrooms)
	assert.Equal(t, "+260977123456", props[0].Agent.Phone)

	reviews := listings.DefaultTestimonials()
	require.Len(t, reviews, 3)
	assert.Equal(t, 4, reviews[2].Rating)

	content := listings.DefaultSiteContent()
	assert.Equal(t, "Invest. Build. Live.", content.HeroHeadline)
	assert.Equal(t, "+260978227584", content.ContactPhone)

	// Every call hands back fresh values.
	props[0].Title = "changed"
	assert.Equal(t, "Prime Commercial Land in Lusaka CBD", listings.DefaultProperties()[0].Title)

	for _, p := range listings.DefaultProperties() {
		assert.NoError(t, listings.ValidateProperty(p), p.ID)
	}
	for _, r := range listings.DefaultTestimonials() {
		assert.NoError(t, listings.ValidateTestimonial(r), r.ID)
	}
	assert.NoError(t, listings.ValidateSiteContent(listings.DefaultSiteContent()))
}

func TestProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Without Saved Data", func(t *testing.T) {
		c, store := newCatalog(t)
		if diff := cmp.Diff(listings.DefaultProperties(), c.Properties(ctx)); diff != "" {
			t.Errorf("properties mismatch (-want +got):\n%s", diff)
		}
		_, ok, err := store.Read(ctx, listings.KeyProperties)
		require.NoError(t, err)
		assert.False(t, ok, "load must not write")
	})

	t.Run("Seed Writes Once", func(t *testing.T) {
		c, store := newCatalog(t)
		got, err := c.SeedProperties(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 4)

		_, ok, err := store.Read(ctx, listings.KeyProperties)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, c.DeleteProperty(ctx, "res-1"))
		got, err = c.SeedProperties(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("Lookup", func(t *testing.T) {
		c, _ := newCatalog(t)
		p, err := c.Property(ctx, "res-2")
		require.NoError(t, err)
		assert.Equal(t, "Modern 2-Bedroom Apartment in Roma", p.Title)

		_, err = c.Property(ctx, "missing")
		assert.ErrorIs(t, err, listings.ErrNotFound)
	})

	t.Run("Delete Keeps Order", func(t *testing.T) {
		all := []string{"comm-1", "res-1", "res-2", "comm-2"}
		for i, id := range all {
			c, _ := newCatalog(t)
			require.NoError(t, c.DeleteProperty(ctx, id))

			want := append(append([]string{}, all[:i]...), all[i+1:]...)
			assert.Equal(t, want, ids(c.Properties(ctx)))
		}
	})

	t.Run("Delete Missing", func(t *testing.T) {
		c, store := newCatalog(t)
		assert.ErrorIs(t, c.DeleteProperty(ctx, "missing"), listings.ErrNotFound)
		_, ok, _ := store.Read(ctx, listings.KeyProperties)
		assert.False(t, ok)
	})

	t.Run("Update In Place", func(t *testing.T) {
		c, _ := newCatalog(t)
		p, err := c.Property(ctx, "res-1")
		require.NoError(t, err)
		p.Status = listings.Sold
		p.Amenities = nil
		require.NoError(t, c.UpdateProperty(ctx, p))

		all := c.Properties(ctx)
		assert.Equal(t, []string{"comm-1", "res-1", "res-2", "comm-2"}, ids(all))
		assert.Equal(t, listings.Sold, all[1].Status)
		assert.Equal(t, []string{}, all[1].Amenities)

		p.ID = "missing"
		assert.ErrorIs(t, c.UpdateProperty(ctx, p), listings.ErrNotFound)
	})

	t.Run("Update Rejects Invalid", func(t *testing.T) {
		c, _ := newCatalog(t)
		p, err := c.Property(ctx, "comm-1")
		require.NoError(t, err)
		p.Title = "  "
		err = c.UpdateProperty(ctx, p)
		assert.ErrorIs(t, err, listings.ErrValidation)

		got, _ := c.Property(ctx, "comm-1")
		assert.Equal(t, "Prime Commercial Land in Lusaka CBD", got.Title)
	})
}

func TestAddProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Form Defaults", func(t *testing.T) {
		c, _ := newCatalog(t)
		p, err := c.AddProperty(ctx, listings.Draft{
			Title:     "Farm Plot in Chongwe",
			Location:  "Chongwe",
			Type:      listings.Land,
			Price:     listings.Price{Amount: 40000},
			Size:      units.Quantity{Value: 2, Unit: units.Acres},
			Amenities: " Borehole, , Fenced ,",
		})
		require.NoError(t, err)

		assert.Equal(t, "prop-1700000000000", p.ID)
		assert.Equal(t, listings.ForSale, p.Status)
		assert.Equal(t, listings.USD, p.Price.Currency)
		assert.Equal(t, []string{"Borehole", "Fenced"}, p.Amenities)
		assert.Equal(t, listings.DefaultAgent, p.Agent)
		assert.Equal(t, listings.DefaultCoordinates, p.Coordinates)
		require.Len(t, p.Images, 1)
		assert.Equal(t, "default", p.Images[0].ID)
		assert.Equal(t, "https://picsum.photos/seed/1700000000000/600/400", p.Images[0].URL)

		all := c.Properties(ctx)
		require.Len(t, all, 5)
		assert.Equal(t, p, all[4])
	})

	t.Run("Same Millisecond Gets Distinct Id", func(t *testing.T) {
		c, _ := newCatalog(t)
		first, err := c.AddProperty(ctx, listings.Draft{Title: "A", Location: "Lusaka"})
		require.NoError(t, err)
		second, err := c.AddProperty(ctx, listings.Draft{Title: "B", Location: "Lusaka"})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.True(t, strings.HasPrefix(second.ID, first.ID+"-"))
	})

	t.Run("Requires Title And Location", func(t *testing.T) {
		c, store := newCatalog(t)
		_, err := c.AddProperty(ctx, listings.Draft{Title: "Only a title"})
		require.Error(t, err)

		var verr *listings.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "property", verr.Record)
		require.NotEmpty(t, verr.Problems)
		assert.Contains(t, strings.Join(verr.Problems, "\n"), "location")

		_, ok, _ := store.Read(ctx, listings.KeyProperties)
		assert.False(t, ok, "nothing is persisted")
	})

	t.Run("Rejects Unknown Unit", func(t *testing.T) {
		c, _ := newCatalog(t)
		_, err := c.AddProperty(ctx, listings.Draft{
			Title:    "Odd",
			Location: "Lusaka",
			Size:     units.Quantity{Value: 1, Unit: "furlongs"},
		})
		assert.ErrorIs(t, err, listings.ErrValidation)
	})
}

func TestSizeIn(t *testing.T) {
	p := listings.DefaultProperties()[0]
	assert.Equal(t, 50000.0, p.SizeIn(units.SquareMeters))
	assert.Equal(t, 12.3553, p.SizeIn(units.Acres))
	assert.Equal(t, 5.0, p.SizeIn(units.Hectares))
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	c, err := listings.NewCatalog(core.NewStore(nil))
	require.NoError(t, err)

	assert.Len(t, c.Properties(ctx), 4)
	require.NoError(t, c.DeleteProperty(ctx, "res-1"))
	assert.Len(t, c.Properties(ctx), 4, "writes are dropped")
	require.NoError(t, c.Seed(ctx))
	assert.Equal(t, listings.DefaultSiteContent(), c.SiteContent(ctx))
}

func TestStoredListingsWithFractionalRooms(t *testing.T) {
	ctx := context.Background()
	c, store := newCatalog(t)
	require.NoError(t, store.Write(ctx, listings.KeyProperties,
		`[{"id":"mine-1","title":"Loft","type":"Residential","status":"For Rent","bedrooms":2.5,"bathrooms":1.5}]`))

	props := c.Properties(ctx)
	require.Equal(t, []string{"mine-1"}, ids(props))
	assert.Equal(t, 2.5, props[0].Bedrooms)
	assert.Equal(t, 1.5, props[0].Bathrooms)

	added, err := c.AddProperty(ctx, listings.Draft{Title: "Farm Plot", Location: "Chongwe", Type: listings.Land})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine-1", added.ID}, ids(c.Properties(ctx)))
}

func TestIncompatibleStoredListingsAreKept(t *testing.T) {
	ctx := context.Background()
	c, store := newCatalog(t)
	stored := `[{"id":"mine-1","title":"Loft","price":"on request"}]`
	require.NoError(t, store.Write(ctx, listings.KeyProperties, stored))

	assert.Equal(t, ids(listings.DefaultProperties()), ids(c.Properties(ctx)))

	_, err := c.AddProperty(ctx, listings.Draft{Title: "Farm Plot", Location: "Chongwe", Type: listings.Land})
	assert.ErrorIs(t, err, typed.ErrIncompatible)
	assert.ErrorIs(t, c.DeleteProperty(ctx, "comm-1"), typed.ErrIncompatible)

	raw, ok, err := store.Read(ctx, listings.KeyProperties)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, raw)
}
