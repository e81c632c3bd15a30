package listings

import (
	"context"

	"github.com/mmcloughlin/geohash"
)

// DefaultGeohashPrecision gives cells of roughly 5km, about one suburb.
const DefaultGeohashPrecision = 5

const maxGeohashPrecision = 12

func clampPrecision(precision int) uint {
	if precision <= 0 {
		return DefaultGeohashPrecision
	}
	if precision > maxGeohashPrecision {
		return maxGeohashPrecision
	}
	return uint(precision)
}

// Geohash returns the cell containing the listing at the given precision.
func (p Property) Geohash(precision int) string {
	return geohash.EncodeWithPrecision(p.Coordinates.Lat, p.Coordinates.Lng, clampPrecision(precision))
}

// Nearby returns the listings in the geohash cell of the point or in one of
// its eight neighbours, so a point close to a cell edge still finds listings
// across it. A precision of zero or less uses DefaultGeohashPrecision.
func (c *Catalog) Nearby(ctx context.Context, lat, lng float64, precision int) []Property {
	cell := geohash.EncodeWithPrecision(lat, lng, clampPrecision(precision))
	area := map[string]bool{cell: true}
	for _, n := range geohash.Neighbors(cell) {
		area[n] = true
	}

	out := []Property{}
	for _, p := range c.properties.Load(ctx) {
		if area[p.Geohash(precision)] {
			out = append(out, p)
		}
	}
	return out
}
