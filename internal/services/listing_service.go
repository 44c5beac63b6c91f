package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/shopspring/decimal"
)

// maxPrice is the first value numeric(12,2) cannot hold.
var maxPrice = decimal.New(1, 10)

// ListingService handles the catalog: vendor-owned listings and their approval.
type ListingService struct {
	repo   repositories.ListingRepository
	events *Events
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository, events *Events) *ListingService {
	return &ListingService{
		repo:   repo,
		events: events,
	}
}

// NewListing is the input of CreateListing. Price is the raw submitted value.
type NewListing struct {
	Name        string
	Category    string
	Price       string
	Description string
}

// ListingChanges is the input of UpdateListing; nil fields are left unchanged.
type ListingChanges struct {
	Name        *string
	Category    *string
	Price       *string
	Description *string
}

// CreateListing adds a listing for the calling vendor. New listings wait for admin approval.
func (s *ListingService) CreateListing(ctx context.Context, actor models.Principal, in NewListing) (*models.Listing, error) {
	if !actor.Is(models.RoleVendor) {
		return nil, ErrForbidden
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	listing := &models.Listing{
		VendorID:    actor.AccountID,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       price,
		Description: strings.TrimSpace(in.Description),
		Status:      models.ListingPending,
	}
	if listing.Name == "" {
		return nil, invalid("name", "is required")
	}
	if listing.Category == "" {
		return nil, invalid("category", "is required")
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListing edits a listing of the calling vendor. A listing the vendor does not
// own is left untouched and reported as not updated rather than as an error.
func (s *ListingService) UpdateListing(ctx context.Context, actor models.Principal, id uint, changes ListingChanges) (bool, error) {
	if !actor.Is(models.RoleVendor) {
		return false, ErrForbidden
	}
	var update models.ListingUpdate
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return false, invalid("name", "must not be empty")
		}
		update.Name = &name
	}
	if changes.Category != nil {
		category := strings.TrimSpace(*changes.Category)
		if category == "" {
			return false, invalid("category", "must not be empty")
		}
		update.Category = &category
	}
	if changes.Price != nil {
		price, err := parsePrice(*changes.Price)
		if err != nil {
			return false, err
		}
		update.Price = &price
	}
	if changes.Description != nil {
		description := strings.TrimSpace(*changes.Description)
		update.Description = &description
	}
	if len(update.Columns()) == 0 {
		return false, invalid("listing", "no fields to update")
	}

	updated, err := s.repo.UpdateOwned(ctx, actor.AccountID, id, update)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Printf("[catalog] vendor %d update of listing %d matched nothing", actor.AccountID, id)
	}
	return updated, nil
}

// DeleteListing removes a listing of the calling vendor; not-owned listings are a no-op.
func (s *ListingService) DeleteListing(ctx context.Context, actor models.Principal, id uint) (bool, error) {
	if !actor.Is(models.RoleVendor) {
		return false, ErrForbidden
	}
	return s.repo.DeleteOwned(ctx, actor.AccountID, id)
}

// ListApproved is the customer catalog: approved listings only, optionally one category.
func (s *ListingService) ListApproved(ctx context.Context, actor models.Principal, category string) ([]models.ListingView, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, repositories.ListingFilter{
		Status:   models.ListingApproved,
		Category: strings.TrimSpace(category),
	})
}

// ListByVendor returns all of the calling vendor's listings in every status.
func (s *ListingService) ListByVendor(ctx context.Context, actor models.Principal) ([]models.Listing, error) {
	if !actor.Is(models.RoleVendor) {
		return nil, ErrForbidden
	}
	return s.repo.ListByVendor(ctx, actor.AccountID)
}

// ListAll is the admin moderation view. An empty status lists every listing.
func (s *ListingService) ListAll(ctx context.Context, actor models.Principal, status string) ([]models.ListingView, error) {
	if !actor.Is(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	filter := repositories.ListingFilter{}
	if status != "" {
		st := models.ListingStatus(status)
		switch st {
		case models.ListingPending, models.ListingApproved, models.ListingRejected:
			filter.Status = st
		default:
			return nil, invalid("status", "must be pending, approved or rejected")
		}
	}
	return s.repo.List(ctx, filter)
}

// SetStatus approves or rejects a listing.
func (s *ListingService) SetStatus(ctx context.Context, actor models.Principal, id uint, status models.ListingStatus) error {
	if !actor.Is(models.RoleAdmin) {
		return ErrForbidden
	}
	if status != models.ListingApproved && status != models.ListingRejected {
		return invalid("status", "must be approved or rejected")
	}
	ok, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	s.events.emit("listing.status_changed", map[string]interface{}{
		"listingID": id,
		"status":    status,
		"adminID":   actor.AccountID,
	})
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalid("price", "is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("price", "must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, invalid("price", "must not be negative")
	}
	price = price.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, invalid("price", "is too large")
	}
	return price, nil
}
