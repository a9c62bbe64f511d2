// internal/adapters/out/firestore/account_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	acctdom "agrimarket/internal/domain/account"
)

// AccountRepositoryFS implements account.Repository using Firestore.
//
// Collection design:
// - collection: accounts
// - docId: email (lowercased)
type AccountRepositoryFS struct {
	Client *firestore.Client
}

func NewAccountRepositoryFS(client *firestore.Client) *AccountRepositoryFS {
	return &AccountRepositoryFS{Client: client}
}

func (r *AccountRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("accounts")
}

func (r *AccountRepositoryFS) GetByEmail(ctx context.Context, email string) (*acctdom.Account, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("account_repository_fs: firestore client is nil")
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return nil, errors.New("account_repository_fs: email is empty")
	}

	snap, err := r.col().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, acctdom.ErrNotFound
		}
		return nil, err
	}

	var a acctdom.Account
	if err := snap.DataTo(&a); err != nil {
		return nil, err
	}
	a.Email = key
	return &a, nil
}

func (r *AccountRepositoryFS) Create(ctx context.Context, a *acctdom.Account) error {
	if r == nil || r.Client == nil {
		return errors.New("account_repository_fs: firestore client is nil")
	}
	if a == nil || strings.TrimSpace(a.Email) == "" {
		return errors.New("account_repository_fs: account email is empty")
	}
	_, err := r.col().Doc(a.Email).Create(ctx, a)
	return err
}

func (r *AccountRepositoryFS) Update(ctx context.Context, a *acctdom.Account) error {
	if r == nil || r.Client == nil {
		return errors.New("account_repository_fs: firestore client is nil")
	}
	if a == nil || strings.TrimSpace(a.Email) == "" {
		return errors.New("account_repository_fs: account email is empty")
	}
	_, err := r.col().Doc(a.Email).Set(ctx, a)
	return err
}
