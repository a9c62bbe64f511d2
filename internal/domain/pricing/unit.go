// internal/domain/pricing/unit.go
package pricing

import (
	"errors"
	"strings"
)

var ErrUnknownUnit = errors.New("pricing: unknown unit")

// Unit is the quantity unit a listing is sold in.
// All order math is done in kilograms; Quintal/Ton are converted on the way in.
type Unit string

const (
	Kilogram Unit = "kg"
	Quintal  Unit = "quintal"
	Ton      Unit = "ton"
)

// ParseUnit parses a unit string case-insensitively.
// Unknown units are rejected; this is the strict path used for order placement.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kilogram", "kilograms":
		return Kilogram, nil
	case "quintal", "quintals":
		return Quintal, nil
	case "ton", "tons", "tonne", "tonnes":
		return Ton, nil
	default:
		return "", ErrUnknownUnit
	}
}

// ParseUnitLenient parses a unit string, defaulting to Kilogram when
// unrecognized. Display paths use this so a listing with a bad unit still
// renders; the order path uses ParseUnit and rejects instead.
func ParseUnitLenient(s string) Unit {
	u, err := ParseUnit(s)
	if err != nil {
		return Kilogram
	}
	return u
}

// KgFactor is the multiplier turning a quantity in this unit into kilograms.
func (u Unit) KgFactor() float64 {
	switch u {
	case Quintal:
		return 100
	case Ton:
		return 1000
	default:
		return 1
	}
}

// QuantityInKg converts a chosen quantity expressed in u into kilograms.
func QuantityInKg(qty int, u Unit) float64 {
	return float64(qty) * u.KgFactor()
}

func (u Unit) String() string { return string(u) }
