// internal/domain/account/repository_port.go
package account

import "context"

// Repository is the persistence port for Account.
//
// Storage (Firestore):
// - collection: accounts
// - docId: email (lowercased)
//
// Not-found policy: Get returns (nil, ErrNotFound).
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
}
