// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "agrimarket/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: buyerID (docId is the source of truth)
// - fields: lines, createdAt, updatedAt, expiresAt
//
// TTL: configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

type cartLineDoc struct {
	ListingID string `firestore:"listingId"`
	Quantity  int    `firestore:"quantity"`
}

type cartDoc struct {
	Lines     []cartLineDoc `firestore:"lines"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

// GetByBuyerID returns (nil, nil) when no cart exists (nil policy; the
// application layer treats nil as "empty cart").
func (r *CartRepositoryFS) GetByBuyerID(ctx context.Context, buyerID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, errors.New("cart_repository_fs: buyerID is empty")
	}

	snap, err := r.col().Doc(bid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var d cartDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}

	lines := make([]cartdom.Line, 0, len(d.Lines))
	for _, ln := range d.Lines {
		lines = append(lines, cartdom.Line{ListingID: ln.ListingID, Quantity: ln.Quantity})
	}
	return &cartdom.Cart{
		ID:        bid,
		Lines:     lines,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		ExpiresAt: d.ExpiresAt,
	}, nil
}

// Upsert saves the cart by docId=cart.ID (= buyerID), overwriting the full
// doc (simple and predictable).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}
	bid := strings.TrimSpace(c.ID)
	if bid == "" {
		return errors.New("cart_repository_fs: Upsert requires cart.ID (= buyerID) as docId")
	}

	lines := make([]cartLineDoc, 0, len(c.Lines))
	for _, ln := range c.Lines {
		lines = append(lines, cartLineDoc{ListingID: ln.ListingID, Quantity: ln.Quantity})
	}
	_, err := r.col().Doc(bid).Set(ctx, cartDoc{
		Lines:     lines,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ExpiresAt: c.ExpiresAt,
	})
	return err
}

func (r *CartRepositoryFS) DeleteByBuyerID(ctx context.Context, buyerID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return errors.New("cart_repository_fs: buyerID is empty")
	}
	_, err := r.col().Doc(bid).Delete(ctx)
	return err
}
