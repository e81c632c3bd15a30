package listings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/estate/pkg/core"
	"github.com/aretw0/estate/pkg/typed"
	"github.com/aretw0/estate/pkg/units"
)

// Catalog performs the agency's record operations over a store.
type Catalog struct {
	store        *core.Store
	logger       *slog.Logger
	now          func() time.Time
	properties   *typed.Collection[Property]
	testimonials *typed.Collection[Testimonial]
	content      *typed.Object[SiteContent]
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock sets the time source used to mint record ids.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCatalog opens the catalog over store, using the embedded fixtures as
// defaults.
func NewCatalog(store *core.Store, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		store:  store,
		logger: store.Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.properties, err = typed.NewCollection(store, KeyProperties, DefaultProperties()); err != nil {
		return nil, fmt.Errorf("failed to open properties: %w", err)
	}
	if c.testimonials, err = typed.NewCollection(store, KeyTestimonials, DefaultTestimonials()); err != nil {
		return nil, fmt.Errorf("failed to open testimonials: %w", err)
	}
	if c.content, err = typed.NewObject(store, KeySiteContent, DefaultSiteContent()); err != nil {
		return nil, fmt.Errorf("failed to open site content: %w", err)
	}
	return c, nil
}

// Store returns the underlying store.
func (c *Catalog) Store() *core.Store {
	return c.store
}

// Seed writes the default listings and reviews for whichever key is empty.
func (c *Catalog) Seed(ctx context.Context) error {
	if _, err := c.SeedProperties(ctx); err != nil {
		return err
	}
	if _, err := c.SeedTestimonials(ctx); err != nil {
		return err
	}
	return nil
}

// Properties returns every listing.
func (c *Catalog) Properties(ctx context.Context) []Property {
	return c.properties.Load(ctx)
}

// SeedProperties returns every listing, first saving the defaults if no
// listings have ever been saved.
func (c *Catalog) SeedProperties(ctx context.Context) ([]Property, error) {
	return c.properties.Seed(ctx)
}

// Property returns the listing with id.
func (c *Catalog) Property(ctx context.Context, id string) (Property, error) {
	for _, p := range c.properties.Load(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
}

// Draft is the input of the new-listing form.
type Draft struct {
	Title               string
	Type                PropertyType
	Status              PropertyStatus
	Price               Price
	Location            string
	Size                units.Quantity
	Bedrooms            float64
	Bathrooms           float64
	Zoning              string
	Description         string
	InvestmentPotential string
	// Amenities is a comma separated list.
	Amenities   string
	Images      []Image
	Agent       *Agent
	Coordinates *Coordinates
}

// DefaultAgent handles listings added without an agent.
var DefaultAgent = Agent{Name: "Admin User", Phone: "+260977123456", Email: "info@zambia.homes"}

// DefaultCoordinates places listings added without a position in Lusaka.
var DefaultCoordinates = Coordinates{Lat: -15.4167, Lng: 28.2833}

// ParseAmenities splits a comma separated list, dropping blank entries.
func ParseAmenities(s string) []string {
	out := []string{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// AddProperty validates the draft and appends it as a new listing.
func (c *Catalog) AddProperty(ctx context.Context, d Draft) (Property, error) {
	millis := c.now().UnixMilli()

	p := Property{
		Title:               strings.TrimSpace(d.Title),
		Type:                d.Type,
		Status:              d.Status,
		Price:               d.Price,
		Location:            strings.TrimSpace(d.Location),
		Size:                d.Size,
		Bedrooms:            d.Bedrooms,
		Bathrooms:           d.Bathrooms,
		Zoning:              d.Zoning,
		Description:         d.Description,
		InvestmentPotential: d.InvestmentPotential,
		Amenities:           ParseAmenities(d.Amenities),
		Images:              d.Images,
		Agent:               DefaultAgent,
		Coordinates:         DefaultCoordinates,
	}
	if p.Type == "" {
		p.Type = Residential
	}
	if p.Status == "" {
		p.Status = ForSale
	}
	if p.Price.Currency == "" {
		p.Price.Currency = USD
	}
	if p.Size.Unit == "" {
		p.Size.Unit = units.SquareMeters
	}
	if len(p.Images) == 0 {
		p.Images = []Image{{
			ID:          "default",
			URL:         fmt.Sprintf("https://picsum.photos/seed/%d/600/400", millis),
			Description: "Newly added property",
			Hint:        "building exterior",
		}}
	}
	if d.Agent != nil {
		p.Agent = *d.Agent
	}
	if d.Coordinates != nil {
		p.Coordinates = *d.Coordinates
	}

	var added Property
	_, err := c.properties.Update(ctx, func(list []Property) ([]Property, error) {
		p.ID = uniqueID(fmt.Sprintf("prop-%d", millis), func(id string) bool {
			return indexOfProperty(list, id) >= 0
		})
		if err := ValidateProperty(p); err != nil {
			return nil, err
		}
		added = p
		return append(list, p), nil
	})
	if err != nil {
		return Property{}, err
	}
	c.logger.Info("property added", "id", added.ID, "title", added.Title)
	return added, nil
}

// UpdateProperty replaces the listing with the same id, keeping its position.
func (c *Catalog) UpdateProperty(ctx context.Context, p Property) error {
	normalizeProperty(&p)
	if err := ValidateProperty(p); err != nil {
		return err
	}
	_, err := c.properties.Update(ctx, func(list []Property) ([]Property, error) {
		i := indexOfProperty(list, p.ID)
		if i < 0 {
			return nil, fmt.Errorf("property %s: %w", p.ID, ErrNotFound)
		}
		list[i] = p
		return list, nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("property updated", "id", p.ID)
	return nil
}

// DeleteProperty removes the listing with id. The remaining listings keep
// their order.
func (c *Catalog) DeleteProperty(ctx context.Context, id string) error {
	_, err := c.properties.Update(ctx, func(list []Property) ([]Property, error) {
		i := indexOfProperty(list, id)
		if i < 0 {
			return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
		}
		return append(list[:i], list[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("property deleted", "id", id)
	return nil
}

// WatchProperties calls fn with the full listing whenever another context
// saves it, until ctx is cancelled.
func (c *Catalog) WatchProperties(ctx context.Context, fn func([]Property)) error {
	return c.properties.OnChange(ctx, fn)
}

func normalizeProperty(p *Property) {
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
}

func indexOfProperty(list []Property, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// uniqueID returns base, or base with a random suffix when taken reports it is
// already in use.
func uniqueID(base string, taken func(string) bool) string {
	id := base
	for taken(id) {
		id = base + "-" + uuid.NewString()[:8]
	}
	return id
}
