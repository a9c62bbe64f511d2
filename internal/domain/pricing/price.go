// internal/domain/pricing/price.go
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// PriceKind tags the Price variant.
type PriceKind int

const (
	// KindUnavailable means no usable price could be resolved.
	// EffectivePrice is 0 and callers must surface "price not available"
	// instead of treating the value as a real quote.
	KindUnavailable PriceKind = iota
	KindFixed
	KindRange
)

// Price is the resolved per-unit price of a listing.
//
// Exactly one of the variants applies:
//   - Fixed(amount): a positive per-unit price
//   - Range(low, high): a "low-high" quote, 0 < low <= high
//   - Unavailable: neither was usable
//
// Resolution precedence: a positive fixed price always wins over a range.
type Price struct {
	Kind PriceKind
	// Amount is set for KindFixed.
	Amount float64
	// Low/High are set for KindRange.
	Low  float64
	High float64
}

func Fixed(amount float64) Price {
	if amount <= 0 {
		return Unavailable()
	}
	return Price{Kind: KindFixed, Amount: amount}
}

func Range(low, high float64) Price {
	if low <= 0 || high <= 0 || low > high {
		return Unavailable()
	}
	return Price{Kind: KindRange, Low: low, High: high}
}

func Unavailable() Price {
	return Price{Kind: KindUnavailable}
}

// Resolve derives the Price from a listing's stored representation:
// a fixed per-unit price (wins when positive) and/or a "low-high" range string.
// A malformed range degrades to Unavailable, it never errors.
func Resolve(unitPrice float64, priceRange string) Price {
	if unitPrice > 0 {
		return Fixed(unitPrice)
	}
	return ParseRange(priceRange)
}

// ParseRange parses "low-high" into a Range price.
// Anything that is not exactly two positive decimals with low <= high
// is treated as Unavailable.
func ParseRange(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unavailable()
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Unavailable()
	}
	low, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	high, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return Unavailable()
	}
	return Range(low, high)
}

// EffectivePrice is the single per-unit value used for total computation.
// Fixed -> amount, Range -> arithmetic mean, Unavailable -> 0.
func (p Price) EffectivePrice() float64 {
	switch p.Kind {
	case KindFixed:
		return p.Amount
	case KindRange:
		return (p.Low + p.High) / 2
	default:
		return 0
	}
}

// Available reports whether the price is a real quote.
// Totals computed from an unavailable price are 0 and must be flagged, not billed.
func (p Price) Available() bool {
	return p.Kind != KindUnavailable
}

// Round2 rounds a monetary amount to 2 decimals (half away from zero).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a monetary amount with exactly 2 decimals ("75.00").
func FormatAmount(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}
