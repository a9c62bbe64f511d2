// internal/adapters/out/db/order_archive_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/lib/pq"

	orderdom "agrimarket/internal/domain/order"
)

// OrderArchivePG is the Postgres order-history read model.
// Firestore stays the system of record; archive writes are best-effort and
// the history read falls back to Firestore when the archive is down.
type OrderArchivePG struct {
	DB *sql.DB
}

func NewOrderArchivePG(db *sql.DB) *OrderArchivePG {
	return &OrderArchivePG{DB: db}
}

// Schema expects:
//
//	CREATE TABLE IF NOT EXISTS order_archive (
//	  id               text PRIMARY KEY,
//	  buyer_email      text NOT NULL,
//	  farmer_id        text NOT NULL,
//	  listing_id       text NOT NULL,
//	  crop_name        text NOT NULL,
//	  unit             text NOT NULL,
//	  quantity         integer NOT NULL,
//	  unit_price       numeric(12,2) NOT NULL,
//	  quantity_in_kg   numeric(14,3) NOT NULL,
//	  total_price      numeric(14,2) NOT NULL,
//	  delivery_address text NOT NULL,
//	  delivery_date    date NOT NULL,
//	  payment_method   text NOT NULL,
//	  idempotency_key  text NOT NULL,
//	  status           text NOT NULL,
//	  created_at       timestamptz NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS order_archive_buyer_idx
//	  ON order_archive (buyer_email, created_at DESC);

// Save upserts one order row (replays with the same id are harmless).
func (r *OrderArchivePG) Save(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.DB == nil {
		return errors.New("order_archive_pg: db is nil")
	}

	const q = `
INSERT INTO order_archive (
  id, buyer_email, farmer_id, listing_id, crop_name, unit, quantity,
  unit_price, quantity_in_kg, total_price, delivery_address, delivery_date,
  payment_method, idempotency_key, status, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`

	_, err := r.DB.ExecContext(ctx, q,
		o.ID, o.BuyerID, o.FarmerID,
		o.Item.ListingID, o.Item.CropName, o.Item.Unit, o.Item.Quantity, o.Item.UnitPrice,
		o.QuantityInKg, o.TotalPrice,
		o.DeliveryAddress, o.DeliveryDate,
		string(o.PaymentMethod), o.IdempotencyKey, string(o.Status), o.CreatedAt,
	)
	return err
}

func (r *OrderArchivePG) ListByBuyer(ctx context.Context, buyerID string) ([]orderdom.Order, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_archive_pg: db is nil")
	}
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, errors.New("order_archive_pg: buyerID is empty")
	}

	const q = `
SELECT
  id, buyer_email, farmer_id, listing_id, crop_name, unit, quantity,
  unit_price, quantity_in_kg, total_price, delivery_address, delivery_date,
  payment_method, idempotency_key, status, created_at
FROM order_archive
WHERE buyer_email = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, q, bid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Order{}
	for rows.Next() {
		var o orderdom.Order
		var method, status string
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.FarmerID,
			&o.Item.ListingID, &o.Item.CropName, &o.Item.Unit, &o.Item.Quantity, &o.Item.UnitPrice,
			&o.QuantityInKg, &o.TotalPrice,
			&o.DeliveryAddress, &o.DeliveryDate,
			&method, &o.IdempotencyKey, &status, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		o.PaymentMethod = orderdom.PaymentMethod(method)
		o.Status = orderdom.Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}
