// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: buyerID
// - fields: lines, createdAt, updatedAt, expiresAt
//
// TTL: configure Firestore TTL on "expiresAt"; the domain refreshes it on
// each mutation via touch().
type Repository interface {
	// GetByBuyerID returns (nil, nil) when no cart exists; the application
	// layer treats nil as "empty cart".
	GetByBuyerID(ctx context.Context, buyerID string) (*Cart, error)

	// Upsert saves the cart (create or update).
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByBuyerID deletes the cart (e.g. after a from-cart order).
	DeleteByBuyerID(ctx context.Context, buyerID string) error
}
