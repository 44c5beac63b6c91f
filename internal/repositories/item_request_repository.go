package repositories

import (
	"context"

	"marketplace/internal/models"
)

// ItemRequestRepository defines the interface for item request data access.
type ItemRequestRepository interface {
	Create(ctx context.Context, req *models.ItemRequest) error
	ListByCustomer(ctx context.Context, customerID uint) ([]models.ItemRequest, error)
	ListAll(ctx context.Context) ([]models.ItemRequestView, error)
	UpdateStatus(ctx context.Context, id uint, status string) (bool, error)
}
