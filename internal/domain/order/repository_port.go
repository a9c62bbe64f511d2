// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for Order.
//
// Storage (Firestore):
// - collection: orders
// - docId: order id
//
// Not-found policy: Get returns (Order{}, ErrNotFound).
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)

	// GetByIdempotencyKey finds an order already created for a checkout
	// attempt; (Order{}, ErrNotFound) when none exists.
	GetByIdempotencyKey(ctx context.Context, key string) (Order, error)

	Create(ctx context.Context, o Order) error

	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Order, error)
}

// Archive is a secondary write port for the order-history read model
// (Postgres). Archive failures must not fail the order; history is
// eventually consistent with the system of record.
type Archive interface {
	Save(ctx context.Context, o Order) error
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
}
