package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// GORMItemRequestRepository is a GORM implementation of ItemRequestRepository.
type GORMItemRequestRepository struct {
	db *gorm.DB
}

func NewGORMItemRequestRepository(db *gorm.DB) *GORMItemRequestRepository {
	return &GORMItemRequestRepository{db: db}
}

func (r *GORMItemRequestRepository) Create(ctx context.Context, req *models.ItemRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}
	return nil
}

func (r *GORMItemRequestRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.ItemRequest, error) {
	reqs := []models.ItemRequest{}
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list item requests of customer %d: %w", customerID, err)
	}
	return reqs, nil
}

func (r *GORMItemRequestRepository) ListAll(ctx context.Context) ([]models.ItemRequestView, error) {
	views := []models.ItemRequestView{}
	err := r.db.WithContext(ctx).
		Table("item_requests").
		Select("item_requests.*, accounts.name AS customer_name").
		Joins("JOIN accounts ON accounts.id = item_requests.customer_id").
		Order("item_requests.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return views, nil
}

func (r *GORMItemRequestRepository) UpdateStatus(ctx context.Context, id uint, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ItemRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update item request %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
