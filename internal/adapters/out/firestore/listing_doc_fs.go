// internal/adapters/out/firestore/listing_doc_fs.go
package firestore

import (
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	listdom "agrimarket/internal/domain/listing"
)

// listingDoc is the stored shape. cropNameLower is a shadow field kept in
// sync on every write so prefix search works without a dedicated index
// service.
type listingDoc struct {
	ID            string  `firestore:"id"`
	FarmerID      string  `firestore:"farmerId"`
	FarmerName    string  `firestore:"farmerName"`
	CropName      string  `firestore:"cropName"`
	CropNameLower string  `firestore:"cropNameLower"`
	Description   string  `firestore:"description"`
	ImageURL      string  `firestore:"cropImage"`
	UnitPrice     float64 `firestore:"pricePerKg"`
	PriceRange    string  `firestore:"priceRange"`
	Unit          string  `firestore:"unit"`
	Quantity      float64 `firestore:"quantity"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func listingToDoc(l *listdom.Listing) listingDoc {
	return listingDoc{
		ID:            l.ID,
		FarmerID:      l.FarmerID,
		FarmerName:    l.FarmerName,
		CropName:      l.CropName,
		CropNameLower: strings.ToLower(l.CropName),
		Description:   l.Description,
		ImageURL:      l.ImageURL,
		UnitPrice:     l.UnitPrice,
		PriceRange:    l.PriceRange,
		Unit:          l.Unit,
		Quantity:      l.AvailableQuantity,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func listingFromSnapshot(snap *firestore.DocumentSnapshot) (*listdom.Listing, error) {
	var d listingDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return &listdom.Listing{
		ID:                d.ID,
		FarmerID:          d.FarmerID,
		FarmerName:        d.FarmerName,
		CropName:          d.CropName,
		Description:       d.Description,
		ImageURL:          d.ImageURL,
		UnitPrice:         d.UnitPrice,
		PriceRange:        d.PriceRange,
		Unit:              d.Unit,
		AvailableQuantity: d.Quantity,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}
