package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// GORMAccountRepository is a GORM implementation of AccountRepository.
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewGORMAccountRepository creates a new instance of GORMAccountRepository.
func NewGORMAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{
		db: db,
	}
}

// Create inserts a new account. A second account with the same email and role yields ErrDuplicateKey.
func (r *GORMAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", translate(err))
	}
	return nil
}

// GetByEmail retrieves the account registered under email for the given role.
func (r *GORMAccountRepository) GetByEmail(ctx context.Context, email string, role models.Role) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "email = ? AND role = ?", email, role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get %s account %s: %w", role, email, translate(err))
	}
	return &account, nil
}

// GetByID retrieves an account by its ID.
func (r *GORMAccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, translate(err))
	}
	return &account, nil
}

// ListByIDs retrieves every account whose ID is in ids.
func (r *GORMAccountRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Account, error) {
	accounts := []models.Account{}
	if len(ids) == 0 {
		return accounts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
