// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")
)

// CartUsecase coordinates cart mutations. Quantities are clamped against
// live listing availability at every write, so a stored cart never exceeds
// stock known at mutation time (the view layer re-clamps at render time for
// stock that shrank since).
type CartUsecase struct {
	carts    cartdom.Repository
	listings listdom.Repository
	clock    Clock
}

func NewCartUsecase(carts cartdom.Repository, listings listdom.Repository) *CartUsecase {
	return &CartUsecase{carts: carts, listings: listings, clock: systemClock{}}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, listings listdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{carts: carts, listings: listings, clock: clock}
}

// Get returns the cart for buyerID; ErrCartNotFound when none exists.
func (uc *CartUsecase) Get(ctx context.Context, buyerID string) (*cartdom.Cart, error) {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// GetOrCreate returns an existing cart; if absent, creates an empty one.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, buyerID string) (*cartdom.Cart, error) {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	now := uc.clock.Now()
	fresh, err := cartdom.NewCart(bid, nil, now)
	if err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// AddItem increments the line for listingID by qty (>= 1), clamping the
// resulting quantity to the listing's available stock.
func (uc *CartUsecase) AddItem(ctx context.Context, buyerID, listingID string, qty int) (*cartdom.Cart, error) {
	bid := strings.TrimSpace(buyerID)
	lid := strings.TrimSpace(listingID)
	if bid == "" || lid == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	l, err := uc.listings.GetByID(ctx, lid)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	c, err := uc.carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cartdom.NewCart(bid, nil, now)
		if err != nil {
			return nil, err
		}
	}

	if err := c.Add(lid, qty, now); err != nil {
		return nil, err
	}
	// re-clamp the merged quantity against current stock
	for _, ln := range c.Lines {
		if ln.ListingID == lid {
			if err := c.SetQuantity(lid, ln.Quantity, l.AvailableQuantity, now); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetQuantity sets the line quantity for listingID, clamped to
// [1, availableQuantity]. A delisted listing leaves only the lower bound in
// force; the line stays visible and removable.
func (uc *CartUsecase) SetQuantity(ctx context.Context, buyerID, listingID string, qty int) (*cartdom.Cart, error) {
	bid := strings.TrimSpace(buyerID)
	lid := strings.TrimSpace(listingID)
	if bid == "" || lid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	available := 0.0
	l, err := uc.listings.GetByID(ctx, lid)
	switch {
	case err == nil:
		available = l.AvailableQuantity
	case errors.Is(err, listdom.ErrNotFound):
		// stock unknown; keep the line, clamp to >= 1 only
	default:
		return nil, err
	}

	now := uc.clock.Now()
	if err := c.SetQuantity(lid, qty, available, now); err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes the line for listingID.
func (uc *CartUsecase) RemoveItem(ctx context.Context, buyerID, listingID string) (*cartdom.Cart, error) {
	bid := strings.TrimSpace(buyerID)
	lid := strings.TrimSpace(listingID)
	if bid == "" || lid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByBuyerID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	now := uc.clock.Now()
	if err := c.Remove(lid, now); err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear deletes the cart doc (empty-cart UX and post-order cleanup).
func (uc *CartUsecase) Clear(ctx context.Context, buyerID string) error {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return ErrCartInvalidArgument
	}
	return uc.carts.DeleteByBuyerID(ctx, bid)
}
