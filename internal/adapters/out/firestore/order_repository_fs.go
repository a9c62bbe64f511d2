// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "agrimarket/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id
// - idempotencyKey carries a single-field index for the dedup lookup
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

type orderItemDoc struct {
	ListingID string  `firestore:"listingId"`
	CropName  string  `firestore:"cropName"`
	Unit      string  `firestore:"unit"`
	Quantity  int     `firestore:"quantity"`
	UnitPrice float64 `firestore:"unitPrice"`
}

type orderDoc struct {
	ID       string `firestore:"id"`
	BuyerID  string `firestore:"buyerEmail"`
	FarmerID string `firestore:"farmerId"`

	Item         orderItemDoc `firestore:"item"`
	QuantityInKg float64      `firestore:"quantityInKg"`
	TotalPrice   float64      `firestore:"totalPrice"`

	DeliveryAddress string    `firestore:"deliveryAddress"`
	DeliveryDate    time.Time `firestore:"deliveryDate"`
	PaymentMethod   string    `firestore:"paymentMethod"`

	IdempotencyKey string    `firestore:"idempotencyKey"`
	Status         string    `firestore:"status"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

func orderToDoc(o orderdom.Order) orderDoc {
	return orderDoc{
		ID:       o.ID,
		BuyerID:  o.BuyerID,
		FarmerID: o.FarmerID,
		Item: orderItemDoc{
			ListingID: o.Item.ListingID,
			CropName:  o.Item.CropName,
			Unit:      o.Item.Unit,
			Quantity:  o.Item.Quantity,
			UnitPrice: o.Item.UnitPrice,
		},
		QuantityInKg:    o.QuantityInKg,
		TotalPrice:      o.TotalPrice,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryDate:    o.DeliveryDate,
		PaymentMethod:   string(o.PaymentMethod),
		IdempotencyKey:  o.IdempotencyKey,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

func orderFromSnapshot(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return orderdom.Order{}, err
	}
	return orderdom.Order{
		ID:       snap.Ref.ID,
		BuyerID:  d.BuyerID,
		FarmerID: d.FarmerID,
		Item: orderdom.ItemSnapshot{
			ListingID: d.Item.ListingID,
			CropName:  d.Item.CropName,
			Unit:      d.Item.Unit,
			Quantity:  d.Item.Quantity,
			UnitPrice: d.Item.UnitPrice,
		},
		QuantityInKg:    d.QuantityInKg,
		TotalPrice:      d.TotalPrice,
		DeliveryAddress: d.DeliveryAddress,
		DeliveryDate:    d.DeliveryDate,
		PaymentMethod:   orderdom.PaymentMethod(d.PaymentMethod),
		IdempotencyKey:  d.IdempotencyKey,
		Status:          orderdom.Status(d.Status),
		CreatedAt:       d.CreatedAt,
	}, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, errors.New("order_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return orderFromSnapshot(snap)
}

func (r *OrderRepositoryFS) GetByIdempotencyKey(ctx context.Context, key string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	it := r.col().Where("idempotencyKey", "==", k).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err != nil {
		return orderdom.Order{}, err
	}
	return orderFromSnapshot(snap)
}

// Create writes the order doc; the doc must not already exist.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order_repository_fs: order id is empty")
	}
	_, err := r.col().Doc(o.ID).Create(ctx, orderToDoc(o))
	return err
}

func (r *OrderRepositoryFS) ListByBuyer(ctx context.Context, buyerID string) ([]orderdom.Order, error) {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, errors.New("order_repository_fs: buyerID is empty")
	}
	return r.collect(r.col().
		Where("buyerEmail", "==", bid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
}

func (r *OrderRepositoryFS) ListByFarmer(ctx context.Context, farmerID string) ([]orderdom.Order, error) {
	fid := strings.TrimSpace(farmerID)
	if fid == "" {
		return nil, errors.New("order_repository_fs: farmerID is empty")
	}
	return r.collect(r.col().
		Where("farmerId", "==", fid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
}

func (r *OrderRepositoryFS) collect(it *firestore.DocumentIterator) ([]orderdom.Order, error) {
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := orderFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
