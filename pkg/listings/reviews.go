package listings

import (
	"context"
	"fmt"
	"strings"
)

// Testimonials returns every review.
func (c *Catalog) Testimonials(ctx context.Context) []Testimonial {
	return c.testimonials.Load(ctx)
}

// SeedTestimonials returns every review, first saving the defaults if no
// reviews have ever been saved.
func (c *Catalog) SeedTestimonials(ctx context.Context) ([]Testimonial, error) {
	return c.testimonials.Seed(ctx)
}

// AddTestimonial validates a review and appends it.
func (c *Catalog) AddTestimonial(ctx context.Context, name string, rating int, comment string) (Testimonial, error) {
	millis := c.now().UnixMilli()
	name = strings.TrimSpace(name)

	t := Testimonial{
		Name:    name,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
		AvatarImage: Image{
			ID:          fmt.Sprintf("avatar-%d", millis),
			URL:         fmt.Sprintf("https://picsum.photos/seed/%d/100/100", millis),
			Description: "Avatar of " + name,
			Hint:        "person portrait",
		},
	}

	_, err := c.testimonials.Update(ctx, func(list []Testimonial) ([]Testimonial, error) {
		t.ID = uniqueID(fmt.Sprintf("test-%d", millis), func(id string) bool {
			return indexOfTestimonial(list, id) >= 0
		})
		if err := ValidateTestimonial(t); err != nil {
			return nil, err
		}
		return append(list, t), nil
	})
	if err != nil {
		return Testimonial{}, err
	}
	c.logger.Info("testimonial added", "id", t.ID, "name", t.Name)
	return t, nil
}

// DeleteTestimonial removes the review with id.
func (c *Catalog) DeleteTestimonial(ctx context.Context, id string) error {
	_, err := c.testimonials.Update(ctx, func(list []Testimonial) ([]Testimonial, error) {
		i := indexOfTestimonial(list, id)
		if i < 0 {
			return nil, fmt.Errorf("testimonial %s: %w", id, ErrNotFound)
		}
		return append(list[:i], list[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("testimonial deleted", "id", id)
	return nil
}

// WatchTestimonials calls fn with every review whenever another context saves
// them, until ctx is cancelled.
func (c *Catalog) WatchTestimonials(ctx context.Context, fn func([]Testimonial)) error {
	return c.testimonials.OnChange(ctx, fn)
}

func indexOfTestimonial(list []Testimonial, id string) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}
