package repositories

import (
	"context"

	"marketplace/internal/models"
)

// ListingRepository defines the interface for catalog data access.
// Vendor-scoped mutations report whether a row owned by that vendor was touched.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	UpdateOwned(ctx context.Context, vendorID, id uint, update models.ListingUpdate) (bool, error)
	DeleteOwned(ctx context.Context, vendorID, id uint) (bool, error)
	List(ctx context.Context, filter ListingFilter) ([]models.ListingView, error)
	ListByVendor(ctx context.Context, vendorID uint) ([]models.Listing, error)
	SetStatus(ctx context.Context, id uint, status models.ListingStatus) (bool, error)
}

// ListingFilter narrows List. Empty fields do not filter.
type ListingFilter struct {
	Status   models.ListingStatus
	Category string
}
