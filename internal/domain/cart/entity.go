// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidCart = errors.New("cart: invalid")

// DefaultCartTTL is the inactivity window after which the cart becomes
// eligible for auto deletion (Firestore TTL configured on expiresAt).
const DefaultCartTTL = 30 * 24 * time.Hour

// Line is one buyer-chosen quantity of one listing.
type Line struct {
	ListingID string `json:"listingId" firestore:"listingId"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

// Cart is the per-buyer cart document.
//   - docId = buyerID (Firestore), so isolation between buyers is structural
//   - Lines keep insertion order; reconciliation and totals preserve it
//   - ExpiresAt is refreshed on every mutation
type Cart struct {
	// ID is the Firestore docId (= buyerID).
	ID string `json:"id" firestore:"id"`

	Lines []Line `json:"lines" firestore:"lines"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewCart creates a cart doc for buyerID. lines can be nil.
func NewCart(buyerID string, lines []Line, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(buyerID),
		Lines:     cloneLines(lines),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increments the quantity for listingID, appending a new line (at the
// end, preserving insertion order) when none exists yet. qty must be >= 1.
func (c *Cart) Add(listingID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	lid := strings.TrimSpace(listingID)
	if lid == "" || qty <= 0 {
		return ErrInvalidCart
	}

	if idx := c.lineIndex(lid); idx >= 0 {
		c.Lines[idx].Quantity += qty
	} else {
		c.Lines = append(c.Lines, Line{ListingID: lid, Quantity: qty})
	}

	c.touch(now)
	return c.validate()
}

// SetQuantity sets the quantity for listingID, clamped to [1, available].
// Requests below 1 coerce to 1; requests above available clamp to available.
// available <= 0 means the stock bound is unknown and only the lower bound
// applies. A listing not in the cart is a no-op.
func (c *Cart) SetQuantity(listingID string, qty int, available float64, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	lid := strings.TrimSpace(listingID)
	if lid == "" {
		return ErrInvalidCart
	}

	idx := c.lineIndex(lid)
	if idx < 0 {
		return nil
	}

	c.Lines[idx].Quantity = ClampQuantity(qty, available)
	c.touch(now)
	return c.validate()
}

// Remove deletes the line for listingID, preserving the order of the rest.
func (c *Cart) Remove(listingID string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	lid := strings.TrimSpace(listingID)
	if lid == "" {
		return ErrInvalidCart
	}

	if idx := c.lineIndex(lid); idx >= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}

	c.touch(now)
	return c.validate()
}

// ConsumeAll clears the lines for order creation and returns a snapshot.
// Call only after the order write succeeded.
func (c *Cart) ConsumeAll(now time.Time) ([]Line, error) {
	if c == nil {
		return nil, ErrInvalidCart
	}

	snap := cloneLines(c.Lines)
	c.Lines = []Line{}

	c.touch(now)
	if err := c.validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// ClampQuantity clamps a requested quantity to [1, available].
// Non-positive requests coerce to 1; available <= 0 leaves only the lower
// bound in force (stock unknown, e.g. a delisted item still in the cart).
func ClampQuantity(qty int, available float64) int {
	if qty < 1 {
		qty = 1
	}
	if available > 0 && float64(qty) > available {
		qty = int(available)
		if qty < 1 {
			qty = 1
		}
	}
	return qty
}

func (c *Cart) lineIndex(listingID string) int {
	for i := range c.Lines {
		if c.Lines[i].ListingID == listingID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	if c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	// Lines can be empty; duplicates are merged into the first occurrence
	// so insertion order survives.
	c.Lines = mergeLines(c.Lines)
	for _, ln := range c.Lines {
		if strings.TrimSpace(ln.ListingID) == "" || ln.Quantity <= 0 {
			return ErrInvalidCart
		}
	}
	return nil
}

// mergeLines drops blank/non-positive entries and folds duplicate listing ids
// into the first occurrence. Unlike a map-based merge, it keeps the original
// insertion order, which the cart view relies on.
func mergeLines(src []Line) []Line {
	out := make([]Line, 0, len(src))
	seen := map[string]int{}

	for _, ln := range src {
		lid := strings.TrimSpace(ln.ListingID)
		if lid == "" || ln.Quantity <= 0 {
			continue
		}
		if i, ok := seen[lid]; ok {
			out[i].Quantity += ln.Quantity
			continue
		}
		seen[lid] = len(out)
		out = append(out, Line{ListingID: lid, Quantity: ln.Quantity})
	}
	return out
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return []Line{}
	}
	cp := make([]Line, len(src))
	copy(cp, src)
	return mergeLines(cp)
}
