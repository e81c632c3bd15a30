package listings

import (
	"context"
	"strings"
)

// AllTypes matches every property type in a Filter.
const AllTypes = "all"

// Filter narrows the public listings page.
type Filter struct {
	// Term matches title or location, case-insensitively.
	Term string
	// Type is a property type name, or "all". Empty means all.
	Type string
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Property) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Term)); term != "" {
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Location), term) {
			return false
		}
	}
	if t := strings.ToLower(strings.TrimSpace(f.Type)); t != "" && t != AllTypes {
		if strings.ToLower(string(p.Type)) != t {
			return false
		}
	}
	return true
}

// Search returns the listings passing f, in stored order.
func (c *Catalog) Search(ctx context.Context, f Filter) []Property {
	out := []Property{}
	for _, p := range c.properties.Load(ctx) {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns up to n listings of type t, in stored order.
func (c *Catalog) Featured(ctx context.Context, t PropertyType, n int) []Property {
	out := []Property{}
	for _, p := range c.properties.Load(ctx) {
		if len(out) >= n {
			break
		}
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// CountByType counts listings per type. Every known type is present.
func (c *Catalog) CountByType(ctx context.Context) map[PropertyType]int {
	counts := make(map[PropertyType]int, len(PropertyTypes()))
	for _, t := range PropertyTypes() {
		counts[t] = 0
	}
	for _, p := range c.properties.Load(ctx) {
		counts[p.Type]++
	}
	return counts
}
