package repositories

import (
	"context"

	"marketplace/internal/models"
)

// AccountRepository defines the interface for account data access.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string, role models.Role) (*models.Account, error)
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Account, error)
}
