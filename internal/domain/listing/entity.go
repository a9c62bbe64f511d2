// internal/domain/listing/entity.go
package listing

import (
	"errors"
	"strings"
	"time"

	"agrimarket/internal/domain/pricing"
)

var (
	ErrInvalidID       = errors.New("listing: invalid id")
	ErrInvalidFarmerID = errors.New("listing: invalid farmerId")
	ErrInvalidCropName = errors.New("listing: invalid cropName")
	ErrInvalidQuantity = errors.New("listing: invalid availableQuantity")
	ErrNotFound        = errors.New("listing: not found")
)

// Listing is a farmer-posted crop for sale.
//
// Price representation is intentionally kept as stored (UnitPrice and/or
// PriceRange); resolution into a single effective price happens through
// pricing.Resolve at computation points, never ad hoc.
type Listing struct {
	ID         string `json:"id" firestore:"id"`
	FarmerID   string `json:"farmerId" firestore:"farmerId"`
	FarmerName string `json:"farmerName" firestore:"farmerName"`

	CropName    string `json:"cropName" firestore:"cropName"`
	Description string `json:"description,omitempty" firestore:"description"`
	ImageURL    string `json:"cropImage,omitempty" firestore:"cropImage"`

	// UnitPrice is the fixed per-unit price. 0 means "not set".
	UnitPrice float64 `json:"pricePerKg" firestore:"pricePerKg"`
	// PriceRange is a "low-high" quote used when UnitPrice is absent.
	PriceRange string `json:"priceRange,omitempty" firestore:"priceRange"`
	// Unit is the raw unit string as entered ("kg", "quintal", "ton").
	Unit string `json:"unit" firestore:"unit"`

	// AvailableQuantity is the purchasable upper bound, expressed in Unit.
	AvailableQuantity float64 `json:"quantity" firestore:"quantity"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func New(id, farmerID, farmerName, cropName string, now time.Time) (*Listing, error) {
	l := &Listing{
		ID:         strings.TrimSpace(id),
		FarmerID:   strings.TrimSpace(farmerID),
		FarmerName: strings.TrimSpace(farmerName),
		CropName:   strings.TrimSpace(cropName),
		Unit:       string(pricing.Kilogram),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Price resolves the listing's stored representation into a tagged price.
func (l *Listing) Price() pricing.Price {
	if l == nil {
		return pricing.Unavailable()
	}
	return pricing.Resolve(l.UnitPrice, l.PriceRange)
}

// UnitLenient parses the stored unit for display purposes (factor-1 default).
func (l *Listing) UnitLenient() pricing.Unit {
	return pricing.ParseUnitLenient(l.Unit)
}

func (l *Listing) Touch(now time.Time) {
	l.UpdatedAt = now
}

func (l *Listing) Validate() error {
	if l == nil || l.ID == "" {
		return ErrInvalidID
	}
	if l.FarmerID == "" {
		return ErrInvalidFarmerID
	}
	if strings.TrimSpace(l.CropName) == "" {
		return ErrInvalidCropName
	}
	if l.AvailableQuantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
