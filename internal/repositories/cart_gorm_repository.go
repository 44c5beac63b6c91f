package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// AddOrIncrement inserts the line or, when the (customer, listing, vendor) triple already
// has one, adds line.Quantity to it.
func (r *GORMCartRepository) AddOrIncrement(ctx context.Context, line *models.CartLine) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "listing_id"}, {Name: "vendor_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_lines.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(line).Error
	if err != nil {
		return fmt.Errorf("failed to add listing %d to cart: %w", line.ListingID, err)
	}
	return nil
}

// DeleteLine removes a line only if it belongs to customerID.
func (r *GORMCartRepository) DeleteLine(ctx context.Context, customerID, lineID uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ? AND customer_id = ?", lineID, customerID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete cart line %d: %w", lineID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Clear removes every line of the customer.
func (r *GORMCartRepository) Clear(ctx context.Context, customerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart of customer %d: %w", customerID, res.Error)
	}
	return res.RowsAffected, nil
}

// ListLines returns the customer's lines priced at the current catalog price. Lines whose
// listing is no longer approved are left out; they come back if the listing is re-approved.
func (r *GORMCartRepository) ListLines(ctx context.Context, customerID uint) ([]models.CartLineView, error) {
	return r.lines(r.linesQuery(ctx, customerID))
}

// LockLines locks the customer's cart rows (FOR UPDATE OF cart_lines). SQLite has no
// row locks and its dialect drops the clause; writers are serialised there anyway.
func (r *GORMCartRepository) LockLines(ctx context.Context, customerID uint) ([]models.CartLineView, error) {
	q := r.linesQuery(ctx, customerID).Clauses(clause.Locking{
		Strength: "UPDATE",
		Table:    clause.Table{Name: "cart_lines"},
	})
	return r.lines(q)
}

func (r *GORMCartRepository) linesQuery(ctx context.Context, customerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("cart_lines").
		Select(`cart_lines.id AS line_id, cart_lines.listing_id, cart_lines.vendor_id, cart_lines.quantity,
			listings.name, listings.category, listings.price AS unit_price, accounts.name AS vendor_name`).
		Joins("JOIN listings ON listings.id = cart_lines.listing_id").
		Joins("JOIN accounts ON accounts.id = cart_lines.vendor_id").
		Where("cart_lines.customer_id = ? AND listings.status = ?", customerID, models.ListingApproved).
		Order("cart_lines.id ASC")
}

func (r *GORMCartRepository) lines(q *gorm.DB) ([]models.CartLineView, error) {
	lines := []models.CartLineView{}
	if err := q.Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	return lines, nil
}
