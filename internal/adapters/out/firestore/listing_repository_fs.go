// internal/adapters/out/firestore/listing_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	listdom "agrimarket/internal/domain/listing"
)

// ListingRepositoryFS implements listing.Repository using Firestore.
//
// Collection design:
// - collection: listings
// - docId: listing id
type ListingRepositoryFS struct {
	Client *firestore.Client
}

func NewListingRepositoryFS(client *firestore.Client) *ListingRepositoryFS {
	return &ListingRepositoryFS{Client: client}
}

func (r *ListingRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("listings")
}

func (r *ListingRepositoryFS) GetByID(ctx context.Context, id string) (*listdom.Listing, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("listing_repository_fs: firestore client is nil")
	}
	lid := strings.TrimSpace(id)
	if lid == "" {
		return nil, errors.New("listing_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(lid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, listdom.ErrNotFound
		}
		return nil, err
	}

	l, err := listingFromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	// docId is the source of truth even if the doc body lacks an id field
	l.ID = lid
	return l, nil
}

// GetByIDs fetches the given ids in one batch; missing ids are simply
// absent from the result (cart reconciliation degrades those lines itself).
func (r *ListingRepositoryFS) GetByIDs(ctx context.Context, ids []string) (map[string]*listdom.Listing, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("listing_repository_fs: firestore client is nil")
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if lid := strings.TrimSpace(id); lid != "" {
			refs = append(refs, r.col().Doc(lid))
		}
	}
	if len(refs) == 0 {
		return map[string]*listdom.Listing{}, nil
	}

	snaps, err := r.Client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*listdom.Listing, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		l, err := listingFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		l.ID = snap.Ref.ID
		out[l.ID] = l
	}
	return out, nil
}

func (r *ListingRepositoryFS) ListAll(ctx context.Context) ([]*listdom.Listing, error) {
	return r.collect(r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx))
}

func (r *ListingRepositoryFS) ListByFarmer(ctx context.Context, farmerID string) ([]*listdom.Listing, error) {
	fid := strings.TrimSpace(farmerID)
	if fid == "" {
		return nil, errors.New("listing_repository_fs: farmerID is empty")
	}
	return r.collect(r.col().Where("farmerId", "==", fid).Documents(ctx))
}

// Search is a case-insensitive prefix match on crop name, via the usual
// Firestore range trick on a lowercased shadow field.
func (r *ListingRepositoryFS) Search(ctx context.Context, query string) ([]*listdom.Listing, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*listdom.Listing{}, nil
	}
	it := r.col().
		Where("cropNameLower", ">=", q).
		Where("cropNameLower", "<=", q+"").
		Documents(ctx)
	return r.collect(it)
}

func (r *ListingRepositoryFS) Suggestions(ctx context.Context, limit int) ([]*listdom.Listing, error) {
	if limit <= 0 {
		limit = 8
	}
	return r.collect(r.col().OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx))
}

func (r *ListingRepositoryFS) Create(ctx context.Context, l *listdom.Listing) error {
	return r.put(ctx, l)
}

func (r *ListingRepositoryFS) Update(ctx context.Context, l *listdom.Listing) error {
	return r.put(ctx, l)
}

func (r *ListingRepositoryFS) put(ctx context.Context, l *listdom.Listing) error {
	if r == nil || r.Client == nil {
		return errors.New("listing_repository_fs: firestore client is nil")
	}
	if l == nil || strings.TrimSpace(l.ID) == "" {
		return errors.New("listing_repository_fs: listing id is empty")
	}
	_, err := r.col().Doc(l.ID).Set(ctx, listingToDoc(l))
	return err
}

func (r *ListingRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("listing_repository_fs: firestore client is nil")
	}
	lid := strings.TrimSpace(id)
	if lid == "" {
		return errors.New("listing_repository_fs: id is empty")
	}
	_, err := r.col().Doc(lid).Delete(ctx)
	return err
}

func (r *ListingRepositoryFS) collect(it *firestore.DocumentIterator) ([]*listdom.Listing, error) {
	defer it.Stop()

	out := []*listdom.Listing{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		l, err := listingFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		l.ID = snap.Ref.ID
		out = append(out, l)
	}
	return out, nil
}
