package listings

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Properties   []Property    `yaml:"properties"`
	Testimonials []Testimonial `yaml:"testimonials"`
	SiteContent  SiteContent   `yaml:"siteContent"`
}

// loadFixtures decodes the embedded fixtures. Every call returns fresh values,
// so callers may modify the result freely.
func loadFixtures() fixtures {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		panic(fmt.Sprintf("listings: invalid embedded fixtures: %v", err))
	}
	return f
}

// DefaultProperties returns the listings shown before any have been saved.
func DefaultProperties() []Property {
	return loadFixtures().Properties
}

// DefaultTestimonials returns the reviews shown before any have been saved.
func DefaultTestimonials() []Testimonial {
	return loadFixtures().Testimonials
}

// DefaultSiteContent returns the site copy used for any field not saved.
func DefaultSiteContent() SiteContent {
	return loadFixtures().SiteContent
}
