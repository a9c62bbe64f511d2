// internal/domain/listing/repository_port.go
package listing

import "context"

// Repository is the persistence port for Listing.
//
// Storage (Firestore):
// - collection: listings
// - docId: listing id
//
// Not-found policy: Get returns (nil, ErrNotFound).
// List-shaped reads return empty slices, never nil errors for "no rows".
type Repository interface {
	GetByID(ctx context.Context, id string) (*Listing, error)

	// GetByIDs returns the listings that exist for the given ids.
	// Missing ids are simply absent from the result; callers that must
	// not drop lines (cart reconciliation) handle the gap themselves.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Listing, error)

	ListAll(ctx context.Context) ([]*Listing, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*Listing, error)

	// Search matches query against crop name (case-insensitive prefix).
	Search(ctx context.Context, query string) ([]*Listing, error)

	// Suggestions returns a small set of recent listings for the
	// home-page "suggestions" mode.
	Suggestions(ctx context.Context, limit int) ([]*Listing, error)

	Create(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id string) error
}
