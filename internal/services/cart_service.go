package services

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// CartService manages a customer's pre-purchase selections.
type CartService struct {
	carts    repositories.CartRepository
	listings repositories.ListingRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, listings repositories.ListingRepository) *CartService {
	return &CartService{
		carts:    carts,
		listings: listings,
	}
}

// AddItem puts quantity units of an approved listing in the caller's cart, adding to
// an existing line for the same listing and vendor. vendorID may be zero; otherwise
// it must name the listing's vendor.
func (s *CartService) AddItem(ctx context.Context, actor models.Principal, listingID, vendorID uint, quantity int) error {
	if !actor.Is(models.RoleCustomer) {
		return ErrForbidden
	}
	if quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
		}
		return err
	}
	// Pending and rejected listings are invisible to customers
	if listing.Status != models.ListingApproved {
		return fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
	}
	if vendorID != 0 && vendorID != listing.VendorID {
		return invalid("vendor_id", "does not match the listing's vendor")
	}

	return s.carts.AddOrIncrement(ctx, &models.CartLine{
		CustomerID: actor.AccountID,
		ListingID:  listing.ID,
		VendorID:   listing.VendorID,
		Quantity:   quantity,
	})
}

// RemoveLine deletes one of the caller's cart lines. Lines of other customers are
// left alone and reported as not removed.
func (s *CartService) RemoveLine(ctx context.Context, actor models.Principal, lineID uint) (bool, error) {
	if !actor.Is(models.RoleCustomer) {
		return false, ErrForbidden
	}
	return s.carts.DeleteLine(ctx, actor.AccountID, lineID)
}

// Clear empties the caller's cart.
func (s *CartService) Clear(ctx context.Context, actor models.Principal) error {
	if !actor.Is(models.RoleCustomer) {
		return ErrForbidden
	}
	_, err := s.carts.Clear(ctx, actor.AccountID)
	return err
}

// ListWithTotals prices the caller's cart at current catalog prices.
func (s *CartService) ListWithTotals(ctx context.Context, actor models.Principal) (models.CartSummary, error) {
	if !actor.Is(models.RoleCustomer) {
		return models.CartSummary{}, ErrForbidden
	}
	lines, err := s.carts.ListLines(ctx, actor.AccountID)
	if err != nil {
		return models.CartSummary{}, err
	}
	return models.Summarize(lines), nil
}
