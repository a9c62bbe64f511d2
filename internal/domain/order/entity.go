// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Entity
// ========================================

// Status of an order. Payment is cash on delivery only, so orders move
// straight to StatusPending on creation; fulfillment transitions are owned
// by the farmer-side flows.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod is a closed enum; only cash on delivery is supported.
type PaymentMethod string

const PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"

// ItemSnapshot freezes the listing state at purchase time. Later price or
// availability edits to the listing never change what was bought.
type ItemSnapshot struct {
	ListingID string  `json:"listingId" firestore:"listingId"`
	CropName  string  `json:"cropName" firestore:"cropName"`
	Unit      string  `json:"unit" firestore:"unit"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	UnitPrice float64 `json:"unitPrice" firestore:"unitPrice"`
}

// Order is one placed purchase of one listing.
//
// Invariants:
//   - QuantityInKg = Item.Quantity x kg factor of Item.Unit
//   - TotalPrice is derived (effective price x QuantityInKg, 2dp), never
//     taken from the client
//   - IdempotencyKey is unique per checkout attempt
type Order struct {
	ID       string `json:"id" firestore:"id"`
	BuyerID  string `json:"buyerEmail" firestore:"buyerEmail"`
	FarmerID string `json:"farmerId" firestore:"farmerId"`

	Item         ItemSnapshot `json:"item" firestore:"item"`
	QuantityInKg float64      `json:"quantityInKg" firestore:"quantityInKg"`
	TotalPrice   float64      `json:"totalPrice" firestore:"totalPrice"`

	DeliveryAddress string        `json:"deliveryAddress" firestore:"deliveryAddress"`
	DeliveryDate    time.Time     `json:"deliveryDate" firestore:"deliveryDate"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" firestore:"paymentMethod"`

	IdempotencyKey string `json:"idempotencyKey" firestore:"idempotencyKey"`
	Status         Status `json:"status" firestore:"status"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID              = errors.New("order: invalid id")
	ErrInvalidBuyerID         = errors.New("order: invalid buyer")
	ErrInvalidFarmerID        = errors.New("order: invalid farmerId")
	ErrInvalidItem            = errors.New("order: invalid item snapshot")
	ErrInvalidQuantityInKg    = errors.New("order: invalid quantityInKg")
	ErrInvalidTotalPrice      = errors.New("order: invalid totalPrice")
	ErrInvalidDeliveryAddress = errors.New("order: invalid deliveryAddress")
	ErrInvalidDeliveryDate    = errors.New("order: invalid deliveryDate")
	ErrInvalidPaymentMethod   = errors.New("order: invalid paymentMethod")
	ErrInvalidCreatedAt       = errors.New("order: invalid createdAt")
	ErrNotFound               = errors.New("order: not found")
)

// ========================================
// Constructor
// ========================================

func New(
	id string,
	buyerID string,
	farmerID string,
	item ItemSnapshot,
	quantityInKg float64,
	totalPrice float64,
	deliveryAddress string,
	deliveryDate time.Time,
	paymentMethod PaymentMethod,
	idempotencyKey string,
	createdAt time.Time,
) (Order, error) {
	o := Order{
		ID:       strings.TrimSpace(id),
		BuyerID:  strings.TrimSpace(buyerID),
		FarmerID: strings.TrimSpace(farmerID),

		Item:         normalizeItem(item),
		QuantityInKg: quantityInKg,
		TotalPrice:   totalPrice,

		DeliveryAddress: strings.TrimSpace(deliveryAddress),
		DeliveryDate:    deliveryDate,
		PaymentMethod:   paymentMethod,

		IdempotencyKey: strings.TrimSpace(idempotencyKey),
		Status:         StatusPending,
		CreatedAt:      createdAt.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.BuyerID == "" {
		return ErrInvalidBuyerID
	}
	if o.FarmerID == "" {
		return ErrInvalidFarmerID
	}
	if err := validateItem(o.Item); err != nil {
		return err
	}
	if o.QuantityInKg <= 0 {
		return ErrInvalidQuantityInKg
	}
	if o.TotalPrice <= 0 {
		return ErrInvalidTotalPrice
	}
	if o.DeliveryAddress == "" {
		return ErrInvalidDeliveryAddress
	}
	if o.DeliveryDate.IsZero() {
		return ErrInvalidDeliveryDate
	}
	if o.PaymentMethod != PaymentCashOnDelivery {
		return ErrInvalidPaymentMethod
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

func validateItem(it ItemSnapshot) error {
	if it.ListingID == "" || it.CropName == "" || it.Unit == "" {
		return ErrInvalidItem
	}
	if it.Quantity <= 0 || it.UnitPrice <= 0 {
		return ErrInvalidItem
	}
	return nil
}

func normalizeItem(it ItemSnapshot) ItemSnapshot {
	it.ListingID = strings.TrimSpace(it.ListingID)
	it.CropName = strings.TrimSpace(it.CropName)
	it.Unit = strings.ToLower(strings.TrimSpace(it.Unit))
	return it
}
