// internal/application/usecase/listing_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	listdom "agrimarket/internal/domain/listing"
	"agrimarket/internal/domain/pricing"
)

var (
	ErrListingInvalidArgument = errors.New("listing_usecase: invalid argument")
	ErrListingForbidden       = errors.New("listing_usecase: listing owned by another farmer")
)

// ImageStore issues upload/read URLs for crop photos (GCS-backed).
type ImageStore interface {
	// SignedUploadURL returns a short-lived PUT URL for objectName.
	SignedUploadURL(ctx context.Context, objectName, contentType string) (string, error)
	// PublicURL is the stable read URL stored on the listing.
	PublicURL(objectName string) string
}

// ListingInput is the create/update payload for a crop listing.
type ListingInput struct {
	CropName    string  `json:"cropName"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"pricePerKg"`
	PriceRange  string  `json:"priceRange"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	ImageURL    string  `json:"cropImage"`
}

// ListingUsecase owns the farmer-side listing CRUD plus the buyer-side
// reads (list, search, suggestions).
type ListingUsecase struct {
	listings listdom.Repository
	images   ImageStore // optional
	clock    Clock
	newID    func() string
}

func NewListingUsecase(listings listdom.Repository) *ListingUsecase {
	return &ListingUsecase{listings: listings, clock: systemClock{}, newID: uuid.NewString}
}

func (uc *ListingUsecase) WithImages(s ImageStore) *ListingUsecase { uc.images = s; return uc }

func (uc *ListingUsecase) WithClock(c Clock) *ListingUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

// Create validates and stores a new listing for farmer.
// A listing must carry either a positive fixed price or a parseable range;
// unit must be recognized on the write path.
func (uc *ListingUsecase) Create(ctx context.Context, farmerID, farmerName string, in ListingInput) (*listdom.Listing, error) {
	fid := strings.TrimSpace(farmerID)
	if fid == "" {
		return nil, ErrListingInvalidArgument
	}

	if err := validateListingInput(in); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	l, err := listdom.New(uc.newID(), fid, farmerName, in.CropName, now)
	if err != nil {
		return nil, err
	}
	applyListingInput(l, in)
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if err := uc.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Update applies in to an existing listing; only the owning farmer may edit.
func (uc *ListingUsecase) Update(ctx context.Context, farmerID, listingID string, in ListingInput) (*listdom.Listing, error) {
	fid := strings.TrimSpace(farmerID)
	lid := strings.TrimSpace(listingID)
	if fid == "" || lid == "" {
		return nil, ErrListingInvalidArgument
	}

	l, err := uc.listings.GetByID(ctx, lid)
	if err != nil {
		return nil, err
	}
	if l.FarmerID != fid {
		return nil, ErrListingForbidden
	}

	if err := validateListingInput(in); err != nil {
		return nil, err
	}
	applyListingInput(l, in)
	l.Touch(uc.clock.Now())
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if err := uc.listings.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a listing; only the owning farmer may delete.
// Carted references degrade to Unknown Farmer lines at view time.
func (uc *ListingUsecase) Delete(ctx context.Context, farmerID, listingID string) error {
	fid := strings.TrimSpace(farmerID)
	lid := strings.TrimSpace(listingID)
	if fid == "" || lid == "" {
		return ErrListingInvalidArgument
	}

	l, err := uc.listings.GetByID(ctx, lid)
	if err != nil {
		return err
	}
	if l.FarmerID != fid {
		return ErrListingForbidden
	}
	return uc.listings.Delete(ctx, lid)
}

func (uc *ListingUsecase) Get(ctx context.Context, id string) (*listdom.Listing, error) {
	lid := strings.TrimSpace(id)
	if lid == "" {
		return nil, ErrListingInvalidArgument
	}
	return uc.listings.GetByID(ctx, lid)
}

func (uc *ListingUsecase) ListAll(ctx context.Context) ([]*listdom.Listing, error) {
	return uc.listings.ListAll(ctx)
}

func (uc *ListingUsecase) ListByFarmer(ctx context.Context, farmerID string) ([]*listdom.Listing, error) {
	fid := strings.TrimSpace(farmerID)
	if fid == "" {
		return nil, ErrListingInvalidArgument
	}
	return uc.listings.ListByFarmer(ctx, fid)
}

func (uc *ListingUsecase) Search(ctx context.Context, query string) ([]*listdom.Listing, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []*listdom.Listing{}, nil
	}
	return uc.listings.Search(ctx, q)
}

const suggestionLimit = 8

func (uc *ListingUsecase) Suggestions(ctx context.Context) ([]*listdom.Listing, error) {
	return uc.listings.Suggestions(ctx, suggestionLimit)
}

// ImageUploadURL returns a signed PUT URL plus the public URL to store on
// the listing once uploaded.
func (uc *ListingUsecase) ImageUploadURL(ctx context.Context, farmerID, listingID, contentType string) (uploadURL, publicURL string, err error) {
	if uc.images == nil {
		return "", "", errors.New("listing_usecase: image store not configured")
	}
	fid := strings.TrimSpace(farmerID)
	lid := strings.TrimSpace(listingID)
	if fid == "" || lid == "" {
		return "", "", ErrListingInvalidArgument
	}

	l, err := uc.listings.GetByID(ctx, lid)
	if err != nil {
		return "", "", err
	}
	if l.FarmerID != fid {
		return "", "", ErrListingForbidden
	}

	objectName := "crops/" + lid
	uploadURL, err = uc.images.SignedUploadURL(ctx, objectName, contentType)
	if err != nil {
		return "", "", err
	}
	return uploadURL, uc.images.PublicURL(objectName), nil
}

func validateListingInput(in ListingInput) error {
	if strings.TrimSpace(in.CropName) == "" {
		return fieldErr("cropName", "Crop name is required")
	}
	if _, err := pricing.ParseUnit(in.Unit); err != nil {
		return fieldErr("unit", "Unit must be kg, quintal or ton")
	}
	if in.Quantity < 0 {
		return fieldErr("quantity", "Quantity cannot be negative")
	}
	if !pricing.Resolve(in.UnitPrice, in.PriceRange).Available() {
		return fieldErr("price", "Provide a positive price or a low-high price range")
	}
	return nil
}

func applyListingInput(l *listdom.Listing, in ListingInput) {
	l.CropName = strings.TrimSpace(in.CropName)
	l.Description = strings.TrimSpace(in.Description)
	l.UnitPrice = in.UnitPrice
	l.PriceRange = strings.TrimSpace(in.PriceRange)
	l.Unit = pricing.ParseUnitLenient(in.Unit).String()
	l.AvailableQuantity = in.Quantity
	if u := strings.TrimSpace(in.ImageURL); u != "" {
		l.ImageURL = u
	}
}
