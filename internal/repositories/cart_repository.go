package repositories

import (
	"context"

	"marketplace/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	AddOrIncrement(ctx context.Context, line *models.CartLine) error
	DeleteLine(ctx context.Context, customerID, lineID uint) (bool, error)
	Clear(ctx context.Context, customerID uint) (int64, error)
	ListLines(ctx context.Context, customerID uint) ([]models.CartLineView, error)
	// LockLines is ListLines holding row locks until the surrounding transaction ends.
	LockLines(ctx context.Context, customerID uint) ([]models.CartLineView, error)
}
