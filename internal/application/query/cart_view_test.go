// internal/application/query/cart_view_test.go
package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
)

func listingFixture(id string, unitPrice float64, priceRange, unit string, qty float64) *listdom.Listing {
	return &listdom.Listing{
		ID:                id,
		FarmerID:          "farmer-1",
		FarmerName:        "Ravi Kumar",
		CropName:          "Wheat",
		UnitPrice:         unitPrice,
		PriceRange:        priceRange,
		Unit:              unit,
		AvailableQuantity: qty,
	}
}

func TestReconcileNeverDropsLines(t *testing.T) {
	lines := []cartdom.Line{
		{ListingID: "a", Quantity: 2},
		{ListingID: "gone", Quantity: 1},
		{ListingID: "b", Quantity: 3},
	}
	listings := map[string]*listdom.Listing{
		"a": listingFixture("a", 10, "", "kg", 100),
		"b": listingFixture("b", 20, "", "kg", 100),
	}

	out := Reconcile(lines, listings)
	require.Len(t, out, len(lines))

	// order preserved
	assert.Equal(t, "a", out[0].ListingID)
	assert.Equal(t, "gone", out[1].ListingID)
	assert.Equal(t, "b", out[2].ListingID)

	// degraded line: sentinel farmer, zero price, not purchasable
	gone := out[1]
	assert.Equal(t, UnknownFarmer, gone.FarmerName)
	assert.Zero(t, gone.UnitPrice)
	assert.False(t, gone.PriceAvailable)
	assert.False(t, gone.Purchasable)
	assert.Equal(t, 1, gone.Quantity)
}

func TestReconcileEmptyCatalog(t *testing.T) {
	lines := []cartdom.Line{{ListingID: "x", Quantity: 1}, {ListingID: "y", Quantity: 2}}
	out := Reconcile(lines, map[string]*listdom.Listing{})
	require.Len(t, out, 2)
	for _, ln := range out {
		assert.Equal(t, UnknownFarmer, ln.FarmerName)
	}
}

func TestReconcileOverwritesStalePriceAndClamps(t *testing.T) {
	lines := []cartdom.Line{{ListingID: "a", Quantity: 9}}
	listings := map[string]*listdom.Listing{
		"a": listingFixture("a", 25, "", "kg", 5),
	}

	out := Reconcile(lines, listings)
	require.Len(t, out, 1)
	assert.Equal(t, 25.0, out[0].UnitPrice)
	assert.Equal(t, 5, out[0].Quantity) // clamped to current stock
	assert.Equal(t, 125.0, out[0].LineTotal)
	assert.True(t, out[0].Purchasable)
}

func TestReconcilePriceRangeMean(t *testing.T) {
	lines := []cartdom.Line{{ListingID: "a", Quantity: 2}}
	listings := map[string]*listdom.Listing{
		"a": listingFixture("a", 0, "40-60", "kg", 10),
	}

	out := Reconcile(lines, listings)
	assert.Equal(t, 50.0, out[0].UnitPrice)
	assert.True(t, out[0].PriceAvailable)
}

func TestCalculateTotal(t *testing.T) {
	assert.Equal(t, 0.0, CalculateTotal(nil))
	assert.Equal(t, 0.0, CalculateTotal([]LineView{}))

	lines := []LineView{
		{UnitPrice: 10, Quantity: 2},
		{UnitPrice: 20, Quantity: 1},
	}
	assert.Equal(t, 40.0, CalculateTotal(lines))
}

// ----------------------------
// View over fake repos
// ----------------------------

type fakeCartRepo struct{ carts map[string]*cartdom.Cart }

func (f *fakeCartRepo) GetByBuyerID(_ context.Context, id string) (*cartdom.Cart, error) {
	return f.carts[id], nil
}
func (f *fakeCartRepo) Upsert(_ context.Context, c *cartdom.Cart) error {
	f.carts[c.ID] = c
	return nil
}
func (f *fakeCartRepo) DeleteByBuyerID(_ context.Context, id string) error {
	delete(f.carts, id)
	return nil
}

type fakeListingRepo struct{ listings map[string]*listdom.Listing }

func (f *fakeListingRepo) GetByID(_ context.Context, id string) (*listdom.Listing, error) {
	if l, ok := f.listings[id]; ok {
		return l, nil
	}
	return nil, listdom.ErrNotFound
}
func (f *fakeListingRepo) GetByIDs(_ context.Context, ids []string) (map[string]*listdom.Listing, error) {
	out := map[string]*listdom.Listing{}
	for _, id := range ids {
		if l, ok := f.listings[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}
func (f *fakeListingRepo) ListAll(context.Context) ([]*listdom.Listing, error) { return nil, nil }
func (f *fakeListingRepo) ListByFarmer(context.Context, string) ([]*listdom.Listing, error) {
	return nil, nil
}
func (f *fakeListingRepo) Search(context.Context, string) ([]*listdom.Listing, error) { return nil, nil }
func (f *fakeListingRepo) Suggestions(context.Context, int) ([]*listdom.Listing, error) {
	return nil, nil
}
func (f *fakeListingRepo) Create(_ context.Context, l *listdom.Listing) error {
	f.listings[l.ID] = l
	return nil
}
func (f *fakeListingRepo) Update(_ context.Context, l *listdom.Listing) error {
	f.listings[l.ID] = l
	return nil
}
func (f *fakeListingRepo) Delete(_ context.Context, id string) error {
	delete(f.listings, id)
	return nil
}

func TestCartQueryView(t *testing.T) {
	ctx := context.Background()

	carts := &fakeCartRepo{carts: map[string]*cartdom.Cart{}}
	listings := &fakeListingRepo{listings: map[string]*listdom.Listing{
		"crop-7": listingFixture("crop-7", 25, "", "kg", 10),
	}}

	c := &cartdom.Cart{ID: "buyer@example.com", Lines: []cartdom.Line{{ListingID: "crop-7", Quantity: 3}}}
	carts.carts[c.ID] = c

	q := NewCartQuery(carts, listings)
	view, err := q.View(ctx, "buyer@example.com")
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 25.0, view.Lines[0].UnitPrice)
	assert.Equal(t, 75.0, view.Total)
	assert.Equal(t, "75.00", view.TotalDisplay)
}

func TestCartQueryViewAbsentCart(t *testing.T) {
	q := NewCartQuery(&fakeCartRepo{carts: map[string]*cartdom.Cart{}},
		&fakeListingRepo{listings: map[string]*listdom.Listing{}})

	view, err := q.View(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, "0.00", view.TotalDisplay)
}
