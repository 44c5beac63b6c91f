package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts the order header and, through the association, its line items.
// Callers that need atomicity with other writes run it on a transaction handle.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, translate(err))
	}
	return &order, nil
}

// ListByCustomer returns a customer's orders, newest first.
func (r *GORMOrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of customer %d: %w", customerID, err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListItemsByVendor(ctx context.Context, vendorID uint) ([]models.OrderLineItem, error) {
	items := []models.OrderLineItem{}
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("order_id DESC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list line items of vendor %d: %w", vendorID, err)
	}
	return items, nil
}

// ListByIDs returns the headers (without items) of the given orders, newest first.
func (r *GORMOrderRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Order, error) {
	orders := []models.Order{}
	if len(ids) == 0 {
		return orders, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) HasVendorItems(ctx context.Context, orderID, vendorID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderLineItem{}).
		Where("order_id = ? AND vendor_id = ?", orderID, vendorID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check items of order %d: %w", orderID, err)
	}
	return n > 0, nil
}

// UpdateStatus overwrites the status of an order. Last writer wins.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
