// internal/application/query/cart_view.go
package query

import (
	"context"
	"errors"
	"strings"

	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
	"agrimarket/internal/domain/pricing"
)

// UnknownFarmer is the sentinel seller name for a line whose listing has
// been delisted since it was carted. The line still renders and can be
// removed, but cannot be purchased at a real price.
const UnknownFarmer = "Unknown Farmer"

// LineView is one display-ready cart line after reconciliation against the
// live catalog. Prices always reflect the latest listing state, never the
// price at add-to-cart time.
type LineView struct {
	ListingID  string `json:"listingId"`
	CropName   string `json:"cropName"`
	FarmerID   string `json:"farmerId,omitempty"`
	FarmerName string `json:"farmerName"`
	ImageURL   string `json:"cropImage,omitempty"`

	Quantity          int     `json:"quantity"`
	Unit              string  `json:"unit"`
	AvailableQuantity float64 `json:"availableQuantity"`

	// UnitPrice is the effective per-unit price (0 when unavailable).
	UnitPrice      float64 `json:"unitPrice"`
	PriceAvailable bool    `json:"priceAvailable"`
	LineTotal      float64 `json:"lineTotal"`

	// Purchasable is false for degraded lines (delisted, no stock, or no
	// usable price).
	Purchasable bool `json:"purchasable"`
}

// CartView is the reconciled, display-ready cart.
type CartView struct {
	BuyerID      string     `json:"buyerId"`
	Lines        []LineView `json:"lines"`
	Total        float64    `json:"total"`
	TotalDisplay string     `json:"totalDisplay"`
}

// Reconcile merges stored cart lines against the live listing set.
//
// Guarantees:
//   - output length always equals input length; a missing listing degrades
//     the line (UnknownFarmer, zero price) instead of dropping it
//   - input order (cart insertion order) is preserved
//   - quantities are re-clamped against current stock for display
func Reconcile(lines []cartdom.Line, listings map[string]*listdom.Listing) []LineView {
	out := make([]LineView, 0, len(lines))

	for _, ln := range lines {
		l := listings[ln.ListingID]
		if l == nil {
			out = append(out, LineView{
				ListingID:  ln.ListingID,
				CropName:   "Unknown",
				FarmerName: UnknownFarmer,
				Quantity:   ln.Quantity,
				Unit:       string(pricing.Kilogram),
			})
			continue
		}

		price := l.Price()
		eff := price.EffectivePrice()
		qty := cartdom.ClampQuantity(ln.Quantity, l.AvailableQuantity)

		out = append(out, LineView{
			ListingID:         l.ID,
			CropName:          l.CropName,
			FarmerID:          l.FarmerID,
			FarmerName:        farmerNameOrUnknown(l.FarmerName),
			ImageURL:          l.ImageURL,
			Quantity:          qty,
			Unit:              l.UnitLenient().String(),
			AvailableQuantity: l.AvailableQuantity,
			UnitPrice:         eff,
			PriceAvailable:    price.Available(),
			LineTotal:         pricing.Round2(eff * float64(qty)),
			Purchasable:       price.Available() && l.AvailableQuantity >= 1,
		})
	}
	return out
}

// CalculateTotal sums effectivePrice x quantity over the lines, 2dp rounded.
// Empty input totals 0. Unavailable prices contribute 0 and are flagged on
// the line, not silently fabricated.
func CalculateTotal(lines []LineView) float64 {
	sum := 0.0
	for _, ln := range lines {
		sum += ln.UnitPrice * float64(ln.Quantity)
	}
	return pricing.Round2(sum)
}

func farmerNameOrUnknown(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownFarmer
	}
	return name
}

// CartQuery is the read model behind GET /api/cart/view.
type CartQuery struct {
	Carts    cartdom.Repository
	Listings listdom.Repository
}

func NewCartQuery(carts cartdom.Repository, listings listdom.Repository) *CartQuery {
	return &CartQuery{Carts: carts, Listings: listings}
}

// View loads the buyer's cart, fetches the referenced listings in one
// round trip, and returns the reconciled view. An absent cart is an empty
// view, not an error.
func (q *CartQuery) View(ctx context.Context, buyerID string) (CartView, error) {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return CartView{}, errors.New("cart_query: buyerID is empty")
	}

	c, err := q.Carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return CartView{}, err
	}
	if c == nil || len(c.Lines) == 0 {
		return CartView{BuyerID: bid, Lines: []LineView{}, TotalDisplay: pricing.FormatAmount(0)}, nil
	}

	ids := make([]string, 0, len(c.Lines))
	for _, ln := range c.Lines {
		ids = append(ids, ln.ListingID)
	}
	listings, err := q.Listings.GetByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}

	lines := Reconcile(c.Lines, listings)
	total := CalculateTotal(lines)
	return CartView{
		BuyerID:      bid,
		Lines:        lines,
		Total:        total,
		TotalDisplay: pricing.FormatAmount(total),
	}, nil
}
