package repositories

import (
	"context"

	"marketplace/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the header and its Items together.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// ListItemsByVendor returns the vendor's line items across all orders.
	ListItemsByVendor(ctx context.Context, vendorID uint) ([]models.OrderLineItem, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Order, error)
	HasVendorItems(ctx context.Context, orderID, vendorID uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status string) (bool, error)
}
