// Package units converts land and floor areas between the units used on listings.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is an area unit token as stored in property records.
type Unit string

const (
	SquareMeters Unit = "sqm"
	Hectares     Unit = "hectares"
	Acres        Unit = "acres"
	// Plot has no standard size and is treated as square meters.
	Plot Unit = "plot"
)

const (
	sqmPerHectare = 10000
	sqmPerAcre    = 4046.86
	precision     = 10000
)

// Units returns the recognised units in display order.
func Units() []Unit {
	return []Unit{SquareMeters, Hectares, Acres, Plot}
}

// Valid reports whether u is one of the recognised tokens.
func (u Unit) Valid() bool {
	switch u {
	case SquareMeters, Hectares, Acres, Plot:
		return true
	}
	return false
}

// ParseUnit normalises s to a Unit. The boolean is false for unknown tokens,
// in which case the returned Unit still carries the lowered input.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	return u, u.Valid()
}

// Convert converts value between area units through square meters and rounds
// the result to four decimal places.
//
// Equal units short-circuit and return value untouched. Unknown units fall
// through to the square-meter branch instead of failing.
func Convert(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}

	var sqm float64
	switch from {
	case Hectares:
		sqm = value * sqmPerHectare
	case Acres:
		sqm = value * sqmPerAcre
	default:
		sqm = value
	}

	var result float64
	switch to {
	case Hectares:
		result = sqm / sqmPerHectare
	case Acres:
		result = sqm / sqmPerAcre
	default:
		result = sqm
	}

	return math.Round(result*precision) / precision
}

// ParseValue reads a numeric form input. Anything that does not parse to a
// finite number yields 0.
func ParseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Quantity is an area magnitude with its unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// In returns the quantity expressed in unit to.
func (q Quantity) In(to Unit) Quantity {
	return Quantity{Value: Convert(q.Value, q.Unit, to), Unit: to}
}

func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(q.Value, 'f', -1, 64), q.Unit)
}
