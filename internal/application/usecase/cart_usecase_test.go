// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
)

func newCartHarness() (*CartUsecase, *fakeCarts, *fakeListings) {
	carts := &fakeCarts{m: map[string]*cartdom.Cart{}}
	listings := &fakeListings{m: map[string]*listdom.Listing{}}
	uc := NewCartUsecaseWithClock(carts, listings, fixedClock{now0})
	return uc, carts, listings
}

func TestCartAddItemCreatesCart(t *testing.T) {
	uc, carts, listings := newCartHarness()
	listings.m["crop-7"] = &listdom.Listing{ID: "crop-7", FarmerID: "f", CropName: "Wheat", Unit: "kg", AvailableQuantity: 10}

	c, err := uc.AddItem(context.Background(), "buyer@example.com", "crop-7", 1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Contains(t, carts.m, "buyer@example.com")
}

func TestCartAddItemClampsToStock(t *testing.T) {
	uc, _, listings := newCartHarness()
	listings.m["crop-7"] = &listdom.Listing{ID: "crop-7", FarmerID: "f", CropName: "Wheat", Unit: "kg", AvailableQuantity: 5}

	_, err := uc.AddItem(context.Background(), "buyer@example.com", "crop-7", 4)
	require.NoError(t, err)
	c, err := uc.AddItem(context.Background(), "buyer@example.com", "crop-7", 4)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestCartAddItemUnknownListing(t *testing.T) {
	uc, _, _ := newCartHarness()

	_, err := uc.AddItem(context.Background(), "buyer@example.com", "ghost", 1)
	assert.ErrorIs(t, err, listdom.ErrNotFound)
}

func TestCartSetQuantityDelistedListing(t *testing.T) {
	uc, carts, _ := newCartHarness()

	c, err := cartdom.NewCart("buyer@example.com", []cartdom.Line{{ListingID: "gone", Quantity: 2}}, now0)
	require.NoError(t, err)
	carts.m[c.ID] = c

	// stock unknown: lower bound still applies, line survives
	got, err := uc.SetQuantity(context.Background(), "buyer@example.com", "gone", -4)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	uc, carts, listings := newCartHarness()
	listings.m["crop-7"] = &listdom.Listing{ID: "crop-7", FarmerID: "f", CropName: "Wheat", Unit: "kg", AvailableQuantity: 10}

	_, err := uc.AddItem(context.Background(), "buyer@example.com", "crop-7", 2)
	require.NoError(t, err)

	c, err := uc.RemoveItem(context.Background(), "buyer@example.com", "crop-7")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	require.NoError(t, uc.Clear(context.Background(), "buyer@example.com"))
	assert.NotContains(t, carts.m, "buyer@example.com")
}

func TestCartGetNotFound(t *testing.T) {
	uc, _, _ := newCartHarness()

	_, err := uc.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrCartNotFound)

	c, err := uc.GetOrCreate(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}
