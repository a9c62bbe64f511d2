// internal/domain/pricing/price_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  float64
		priceRange string
		wantKind   PriceKind
		wantEff    float64
	}{
		{"fixed wins over range", 75, "40-60", KindFixed, 75},
		{"range mean", 0, "40-60", KindRange, 50},
		{"range with spaces", 0, " 10 - 14 ", KindRange, 12},
		{"zero unit price falls back", 0, "10-14", KindRange, 12},
		{"negative unit price falls back", -5, "10-14", KindRange, 12},
		{"empty everything", 0, "", KindUnavailable, 0},
		{"malformed range one part", 0, "40", KindUnavailable, 0},
		{"malformed range three parts", 0, "10-20-30", KindUnavailable, 0},
		{"non numeric range", 0, "cheap-expensive", KindUnavailable, 0},
		{"inverted range", 0, "60-40", KindUnavailable, 0},
		{"negative range end", 0, "-10-20", KindUnavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.unitPrice, tt.priceRange)
			assert.Equal(t, tt.wantKind, p.Kind)
			assert.InDelta(t, tt.wantEff, p.EffectivePrice(), 1e-9)
		})
	}
}

func TestPriceAvailable(t *testing.T) {
	assert.True(t, Fixed(25).Available())
	assert.True(t, Range(10, 14).Available())
	assert.False(t, Unavailable().Available())
	// degenerate constructors collapse to Unavailable
	assert.False(t, Fixed(0).Available())
	assert.False(t, Range(0, 10).Available())
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{
		"kg":       Kilogram,
		"KG":       Kilogram,
		"Kilogram": Kilogram,
		"quintal":  Quintal,
		"QUINTAL":  Quintal,
		"ton":      Ton,
		"Tonnes":   Ton,
		" kg ":     Kilogram,
	} {
		u, err := ParseUnit(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, u, "input %q", in)
	}

	_, err := ParseUnit("bushel")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	// lenient path defaults to kg instead of failing
	assert.Equal(t, Kilogram, ParseUnitLenient("bushel"))
}

func TestQuantityInKg(t *testing.T) {
	assert.Equal(t, 200.0, QuantityInKg(2, Quintal))
	assert.Equal(t, 1000.0, QuantityInKg(1, Ton))
	assert.Equal(t, 3.0, QuantityInKg(3, Kilogram))

	// conversion is linear: doubling quantity doubles kg
	assert.Equal(t, 2*QuantityInKg(5, Quintal), QuantityInKg(10, Quintal))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 40.0, Round2(40.004))
	assert.Equal(t, 40.01, Round2(40.006))
	assert.Equal(t, 12.35, Round2(12.3456))
	assert.Equal(t, "75.00", FormatAmount(75))
	assert.Equal(t, "6000.00", FormatAmount(12*500))
}
