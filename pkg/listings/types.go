// Package listings holds the agency's records and the catalog operations the
// public pages and the admin panel perform on them.
package listings

import (
	"strings"

	"github.com/aretw0/estate/pkg/units"
)

// Storage keys.
const (
	KeyProperties   = "properties"
	KeyTestimonials = "testimonials"
	KeySiteContent  = "siteContent"
)

// PropertyType classifies a listing.
type PropertyType string

const (
	Commercial  PropertyType = "Commercial"
	Residential PropertyType = "Residential"
	Land        PropertyType = "Land"
	Mine        PropertyType = "Mine"
)

// PropertyTypes lists every property type in display order.
func PropertyTypes() []PropertyType {
	return []PropertyType{Residential, Commercial, Land, Mine}
}

// ParsePropertyType matches s case-insensitively against the known types.
func ParsePropertyType(s string) (PropertyType, bool) {
	for _, t := range PropertyTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// PropertyStatus is the market state of a listing.
type PropertyStatus string

const (
	ForSale PropertyStatus = "For Sale"
	ForRent PropertyStatus = "For Rent"
	Sold    PropertyStatus = "Sold"
)

// Currency of a listing price.
type Currency string

const (
	USD Currency = "USD"
	ZMW Currency = "ZMW"
)

type Price struct {
	Amount   float64  `json:"amount" yaml:"amount"`
	Currency Currency `json:"currency" yaml:"currency"`
}

type Image struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	Hint        string `json:"hint" yaml:"hint"`
}

type Agent struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Property is one listing.
type Property struct {
	ID                  string         `json:"id" yaml:"id"`
	Title               string         `json:"title" yaml:"title"`
	Type                PropertyType   `json:"type" yaml:"type"`
	Status              PropertyStatus `json:"status" yaml:"status"`
	Price               Price          `json:"price" yaml:"price"`
	Location            string         `json:"location" yaml:"location"`
	Size                units.Quantity `json:"size" yaml:"size"`
	Bedrooms            float64        `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms           float64        `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	Zoning              string         `json:"zoning,omitempty" yaml:"zoning,omitempty"`
	Description         string         `json:"description" yaml:"description"`
	Amenities           []string       `json:"amenities" yaml:"amenities"`
	InvestmentPotential string         `json:"investmentPotential,omitempty" yaml:"investmentPotential,omitempty"`
	Images              []Image        `json:"images" yaml:"images"`
	Agent               Agent          `json:"agent" yaml:"agent"`
	Coordinates         Coordinates    `json:"coordinates" yaml:"coordinates"`
}

// SizeIn returns the property's size expressed in unit.
func (p Property) SizeIn(unit units.Unit) float64 {
	return p.Size.In(unit).Value
}

// Testimonial is a client review shown on the home page.
type Testimonial struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Rating      int    `json:"rating" yaml:"rating"`
	Comment     string `json:"comment" yaml:"comment"`
	AvatarImage Image  `json:"avatarImage" yaml:"avatarImage"`
}

// SiteContent is the editable copy of the site.
type SiteContent struct {
	HeroHeadline    string `json:"heroHeadline" yaml:"heroHeadline"`
	HeroSubheadline string `json:"heroSubheadline" yaml:"heroSubheadline"`
	ContactPhone    string `json:"contactPhone" yaml:"contactPhone"`
	ContactEmail    string `json:"contactEmail" yaml:"contactEmail"`
	ContactAddress  string `json:"contactAddress" yaml:"contactAddress"`
}
