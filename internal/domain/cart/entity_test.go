// internal/domain/cart/entity_test.go
package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		available float64
		want      int
	}{
		{"above stock clamps down", 9, 5, 5},
		{"zero coerces to 1", 0, 5, 1},
		{"negative coerces to 1", -3, 5, 1},
		{"within bounds unchanged", 3, 5, 3},
		{"at bound unchanged", 5, 5, 5},
		{"unknown stock keeps request", 9, 0, 9},
		{"fractional stock floors", 4, 3.7, 3},
		{"stock below one still yields one", 5, 0.4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.qty, tt.available))
		})
	}
}

func TestCartAddAndOrder(t *testing.T) {
	c, err := NewCart("buyer@example.com", nil, t0)
	require.NoError(t, err)

	require.NoError(t, c.Add("crop-7", 1, t0))
	require.NoError(t, c.Add("crop-2", 2, t0))
	require.NoError(t, c.Add("crop-7", 2, t0)) // increments, does not reorder

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "crop-7", c.Lines[0].ListingID)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, "crop-2", c.Lines[1].ListingID)
}

func TestCartSetQuantityClamps(t *testing.T) {
	c, err := NewCart("buyer@example.com", []Line{{ListingID: "crop-7", Quantity: 1}}, t0)
	require.NoError(t, err)

	require.NoError(t, c.SetQuantity("crop-7", 9, 5, t0))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	require.NoError(t, c.SetQuantity("crop-7", -1, 5, t0))
	assert.Equal(t, 1, c.Lines[0].Quantity)

	// unknown listing is a no-op, not an error
	require.NoError(t, c.SetQuantity("ghost", 3, 5, t0))
	require.Len(t, c.Lines, 1)
}

func TestCartRemovePreservesOrder(t *testing.T) {
	lines := []Line{
		{ListingID: "a", Quantity: 1},
		{ListingID: "b", Quantity: 2},
		{ListingID: "c", Quantity: 3},
	}
	c, err := NewCart("buyer@example.com", lines, t0)
	require.NoError(t, err)

	require.NoError(t, c.Remove("b", t0))
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "a", c.Lines[0].ListingID)
	assert.Equal(t, "c", c.Lines[1].ListingID)
}

func TestCartConsumeAll(t *testing.T) {
	c, err := NewCart("buyer@example.com", []Line{{ListingID: "a", Quantity: 2}}, t0)
	require.NoError(t, err)

	snap, err := c.ConsumeAll(t0.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, 2, snap[0].Quantity)
	assert.Empty(t, c.Lines)
	assert.Equal(t, t0.Add(time.Minute).Add(DefaultCartTTL), c.ExpiresAt)
}

func TestCartMergesDuplicateLines(t *testing.T) {
	lines := []Line{
		{ListingID: "a", Quantity: 1},
		{ListingID: "b", Quantity: 1},
		{ListingID: "a", Quantity: 2},
		{ListingID: "", Quantity: 5},  // dropped
		{ListingID: "c", Quantity: 0}, // dropped
	}
	c, err := NewCart("buyer@example.com", lines, t0)
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, Line{ListingID: "a", Quantity: 3}, c.Lines[0])
	assert.Equal(t, Line{ListingID: "b", Quantity: 1}, c.Lines[1])
}

func TestNewCartRequiresBuyerID(t *testing.T) {
	_, err := NewCart("  ", nil, t0)
	assert.ErrorIs(t, err, ErrInvalidCart)
}
