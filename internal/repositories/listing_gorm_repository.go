package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// Create inserts a new listing.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get listing by ID %d: %w", id, translate(err))
	}
	return &listing, nil
}

// UpdateOwned applies update to the listing only when vendorID owns it.
func (r *GORMListingRepository) UpdateOwned(ctx context.Context, vendorID, id uint, update models.ListingUpdate) (bool, error) {
	cols := update.Columns()
	if len(cols) == 0 {
		return false, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(cols)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update listing %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteOwned deletes the listing only when vendorID owns it, together with every cart
// line that still points at it. Order line items keep their snapshot.
func (r *GORMListingRepository) DeleteOwned(ctx context.Context, vendorID, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Listing{}, "id = ? AND vendor_id = ?", id, vendorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("listing_id = ?", id).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	return deleted, nil
}

// List returns listings joined with their vendor's name, newest first.
func (r *GORMListingRepository) List(ctx context.Context, filter ListingFilter) ([]models.ListingView, error) {
	q := r.db.WithContext(ctx).
		Table("listings").
		Select("listings.*, accounts.name AS vendor_name").
		Joins("JOIN accounts ON accounts.id = listings.vendor_id")
	if filter.Status != "" {
		q = q.Where("listings.status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("listings.category = ?", filter.Category)
	}

	views := []models.ListingView{}
	if err := q.Order("listings.id DESC").Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return views, nil
}

// ListByVendor returns every listing of a vendor regardless of status.
func (r *GORMListingRepository) ListByVendor(ctx context.Context, vendorID uint) ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings of vendor %d: %w", vendorID, err)
	}
	return listings, nil
}

// SetStatus overwrites the approval status.
func (r *GORMListingRepository) SetStatus(ctx context.Context, id uint, status models.ListingStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set status of listing %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
