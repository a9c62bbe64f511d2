// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
	orderdom "agrimarket/internal/domain/order"
	"agrimarket/internal/domain/pricing"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrPriceUnavailable     = errors.New("order_usecase: price not available for listing")
	// ErrDuplicateInFlight means another submission with the same
	// idempotency key has not finished yet; the client should wait and
	// re-query rather than resubmit.
	ErrDuplicateInFlight = errors.New("order_usecase: submission already in flight")
)

// IdempotencyRegistry guards order placement against duplicate submission
// after a network error. One key is minted per checkout attempt; a retry
// with the same key returns the already-created order.
type IdempotencyRegistry interface {
	// Reserve claims key for this attempt. When the key was already bound
	// to an order it returns that order id; when a claim is still pending
	// it returns ErrDuplicateInFlight-compatible state via inFlight.
	Reserve(ctx context.Context, key string, ttl time.Duration) (orderID string, inFlight bool, reserved bool, err error)

	// Bind records the created order id under key.
	Bind(ctx context.Context, key, orderID string, ttl time.Duration) error

	// Release frees a reservation after a failed attempt so the client
	// can retry with the same key.
	Release(ctx context.Context, key string) error
}

// Mailer sends transactional mail. Failures are logged, never fatal to the
// order.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// idempotencyTTL bounds how long a checkout attempt stays deduplicated.
const idempotencyTTL = 24 * time.Hour

// PlaceOrderCommand is one purchase intent for one listing.
type PlaceOrderCommand struct {
	BuyerID   string
	ListingID string
	Quantity  int

	DeliveryAddress string
	// DeliveryDate is the requested date in "2006-01-02" form.
	DeliveryDate  string
	PaymentMethod string

	// IdempotencyKey identifies the checkout attempt; empty means the
	// caller did not supply one and a fresh key is minted (the attempt is
	// then only deduplicated if the client echoes the returned key).
	IdempotencyKey string

	// FromCart consumes the buyer's cart lines for this listing on success.
	FromCart bool
}

// PlaceOrderResult carries the created (or replayed) order.
type PlaceOrderResult struct {
	Order orderdom.Order
	// AlreadyPlaced is true when the idempotency key matched an existing
	// order and no new write happened.
	AlreadyPlaced bool
	// TotalDisplay is the 2-decimal rendering of Order.TotalPrice.
	TotalDisplay string
}

// OrderUsecase builds and places orders: validates the purchase form,
// normalizes the quantity to kilograms, derives the total from the
// listing's current price, and writes exactly one order per checkout
// attempt.
type OrderUsecase struct {
	orders   orderdom.Repository
	archive  orderdom.Archive // optional
	listings listdom.Repository
	carts    cartdom.Repository
	idem     IdempotencyRegistry // optional
	mailer   Mailer              // optional
	clock    Clock
	newID    func() string
}

func NewOrderUsecase(
	orders orderdom.Repository,
	listings listdom.Repository,
	carts cartdom.Repository,
) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		listings: listings,
		carts:    carts,
		clock:    systemClock{},
		newID:    uuid.NewString,
	}
}

func (uc *OrderUsecase) WithArchive(a orderdom.Archive) *OrderUsecase { uc.archive = a; return uc }

func (uc *OrderUsecase) WithIdempotency(r IdempotencyRegistry) *OrderUsecase {
	uc.idem = r
	return uc
}

func (uc *OrderUsecase) WithMailer(m Mailer) *OrderUsecase { uc.mailer = m; return uc }

// WithClock and WithIDGen are for tests.
func (uc *OrderUsecase) WithClock(c Clock) *OrderUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *OrderUsecase) WithIDGen(gen func() string) *OrderUsecase {
	if gen != nil {
		uc.newID = gen
	}
	return uc
}

// PlaceOrder validates cmd and creates the order.
//
// Validation runs in a fixed order and short-circuits on the first failure:
//  1. deliveryAddress non-empty after trim
//  2. deliveryDate present, parseable, and >= today (local midnight)
//  3. quantity >= 1 and <= the listing's available stock
//
// The total is always derived server-side: effectivePrice x quantityInKg,
// rounded to 2 decimals. Unknown units and unavailable prices are rejected
// here rather than silently defaulted.
func (uc *OrderUsecase) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	bid := strings.TrimSpace(cmd.BuyerID)
	lid := strings.TrimSpace(cmd.ListingID)
	if bid == "" || lid == "" {
		return PlaceOrderResult{}, ErrOrderInvalidArgument
	}

	now := uc.clock.Now()

	// ---- form validation (ordered, short-circuiting)
	address := strings.TrimSpace(cmd.DeliveryAddress)
	if address == "" {
		return PlaceOrderResult{}, fieldErr("deliveryAddress", "Delivery address is required")
	}

	dateStr := strings.TrimSpace(cmd.DeliveryDate)
	if dateStr == "" {
		return PlaceOrderResult{}, fieldErr("deliveryDate", "Delivery date is required")
	}
	deliveryDate, err := time.ParseInLocation("2006-01-02", dateStr, now.Location())
	if err != nil {
		return PlaceOrderResult{}, fieldErr("deliveryDate", "Delivery date must be YYYY-MM-DD")
	}
	if deliveryDate.Before(Today(now)) {
		return PlaceOrderResult{}, fieldErr("deliveryDate", "Delivery date cannot be in the past")
	}

	if cmd.Quantity < 1 {
		return PlaceOrderResult{}, fieldErr("quantity", "Quantity must be at least 1")
	}

	l, err := uc.listings.GetByID(ctx, lid)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	if float64(cmd.Quantity) > l.AvailableQuantity {
		return PlaceOrderResult{}, fieldErr("quantity",
			fmt.Sprintf("Only %.0f %s available", l.AvailableQuantity, l.Unit))
	}

	method := orderdom.PaymentMethod(strings.TrimSpace(cmd.PaymentMethod))
	if method == "" {
		method = orderdom.PaymentCashOnDelivery
	}
	if method != orderdom.PaymentCashOnDelivery {
		return PlaceOrderResult{}, fieldErr("paymentMethod", "Unsupported payment method")
	}

	// ---- unit normalization (strict: unknown units are rejected, not
	// silently treated as kilograms)
	unit, err := pricing.ParseUnit(l.Unit)
	if err != nil {
		return PlaceOrderResult{}, fieldErr("unit", "Listing has an unrecognized unit: "+l.Unit)
	}
	quantityInKg := pricing.QuantityInKg(cmd.Quantity, unit)

	// ---- price resolution
	price := l.Price()
	if !price.Available() {
		return PlaceOrderResult{}, ErrPriceUnavailable
	}
	totalPrice := pricing.Round2(price.EffectivePrice() * quantityInKg)

	// ---- idempotency
	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key == "" {
		key = uc.newID()
	}
	if uc.idem != nil {
		existingID, inFlight, reserved, err := uc.idem.Reserve(ctx, key, idempotencyTTL)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		if existingID != "" {
			existing, err := uc.orders.GetByID(ctx, existingID)
			if err != nil {
				return PlaceOrderResult{}, err
			}
			return replayed(existing), nil
		}
		if inFlight {
			return PlaceOrderResult{}, ErrDuplicateInFlight
		}
		_ = reserved
	} else {
		// registry not wired: fall back to the system of record
		if existing, err := uc.orders.GetByIdempotencyKey(ctx, key); err == nil {
			return replayed(existing), nil
		} else if !errors.Is(err, orderdom.ErrNotFound) {
			return PlaceOrderResult{}, err
		}
	}

	o, err := orderdom.New(
		uc.newID(),
		bid,
		l.FarmerID,
		orderdom.ItemSnapshot{
			ListingID: l.ID,
			CropName:  l.CropName,
			Unit:      unit.String(),
			Quantity:  cmd.Quantity,
			UnitPrice: price.EffectivePrice(),
		},
		quantityInKg,
		totalPrice,
		address,
		deliveryDate,
		method,
		key,
		now,
	)
	if err != nil {
		uc.release(ctx, key)
		return PlaceOrderResult{}, err
	}

	if err := uc.orders.Create(ctx, o); err != nil {
		uc.release(ctx, key)
		return PlaceOrderResult{}, err
	}
	if uc.idem != nil {
		if err := uc.idem.Bind(ctx, key, o.ID, idempotencyTTL); err != nil {
			log.Printf("[order] WARN: idempotency bind failed key=%s order=%s: %v", key, o.ID, err)
		}
	}

	uc.afterPlace(ctx, o, cmd.FromCart)

	return PlaceOrderResult{
		Order:        o,
		TotalDisplay: pricing.FormatAmount(o.TotalPrice),
	}, nil
}

// afterPlace runs the best-effort side effects: archive write, cart
// consumption, confirmation mail. None of them can fail the placed order.
func (uc *OrderUsecase) afterPlace(ctx context.Context, o orderdom.Order, fromCart bool) {
	if uc.archive != nil {
		if err := uc.archive.Save(ctx, o); err != nil {
			log.Printf("[order] WARN: archive save failed order=%s: %v", o.ID, err)
		}
	}

	if fromCart {
		if err := uc.consumeCartLine(ctx, o.BuyerID, o.Item.ListingID); err != nil {
			log.Printf("[order] WARN: cart consume failed buyer=%s listing=%s: %v",
				o.BuyerID, o.Item.ListingID, err)
		}
	}

	if uc.mailer != nil {
		subject := "Order confirmed: " + o.Item.CropName
		body := fmt.Sprintf(
			"Your order %s has been placed.\n\nCrop: %s\nQuantity: %d %s (%.0f kg)\nTotal: %s\nDelivery: %s to %s\nPayment: %s\n",
			o.ID, o.Item.CropName, o.Item.Quantity, o.Item.Unit, o.QuantityInKg,
			pricing.FormatAmount(o.TotalPrice),
			o.DeliveryDate.Format("2006-01-02"), o.DeliveryAddress,
			o.PaymentMethod,
		)
		if err := uc.mailer.Send(ctx, o.BuyerID, subject, body); err != nil {
			log.Printf("[order] WARN: confirmation mail failed order=%s: %v", o.ID, err)
		}
	}
}

func (uc *OrderUsecase) consumeCartLine(ctx context.Context, buyerID, listingID string) error {
	c, err := uc.carts.GetByBuyerID(ctx, buyerID)
	if err != nil || c == nil {
		return err
	}
	if err := c.Remove(listingID, uc.clock.Now()); err != nil {
		return err
	}
	return uc.carts.Upsert(ctx, c)
}

func (uc *OrderUsecase) release(ctx context.Context, key string) {
	if uc.idem == nil {
		return
	}
	if err := uc.idem.Release(ctx, key); err != nil {
		log.Printf("[order] WARN: idempotency release failed key=%s: %v", key, err)
	}
}

func replayed(o orderdom.Order) PlaceOrderResult {
	return PlaceOrderResult{
		Order:         o,
		AlreadyPlaced: true,
		TotalDisplay:  pricing.FormatAmount(o.TotalPrice),
	}
}

// HistoryByBuyer returns the buyer's past orders, newest first. The
// Postgres archive serves the read when wired; the system of record is the
// fallback so history degrades instead of disappearing.
func (uc *OrderUsecase) HistoryByBuyer(ctx context.Context, buyerID string) ([]orderdom.Order, error) {
	bid := strings.TrimSpace(buyerID)
	if bid == "" {
		return nil, ErrOrderInvalidArgument
	}

	if uc.archive != nil {
		if out, err := uc.archive.ListByBuyer(ctx, bid); err == nil {
			return out, nil
		} else {
			log.Printf("[order] WARN: archive read failed buyer=%s: %v (falling back)", bid, err)
		}
	}
	return uc.orders.ListByBuyer(ctx, bid)
}

// BookingsByFarmer returns orders placed against a farmer's listings.
func (uc *OrderUsecase) BookingsByFarmer(ctx context.Context, farmerID string) ([]orderdom.Order, error) {
	fid := strings.TrimSpace(farmerID)
	if fid == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.orders.ListByFarmer(ctx, fid)
}
