package services

import (
	"context"
	"fmt"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// ItemRequestService handles customer requests for items the catalog lacks.
type ItemRequestService struct {
	repo repositories.ItemRequestRepository
}

func NewItemRequestService(repo repositories.ItemRequestRepository) *ItemRequestService {
	return &ItemRequestService{repo: repo}
}

func (s *ItemRequestService) Submit(ctx context.Context, actor models.Principal, description string) (*models.ItemRequest, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, ErrForbidden
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("description", "is required")
	}
	req := &models.ItemRequest{
		CustomerID:  actor.AccountID,
		Description: description,
		Status:      models.ItemRequestPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ItemRequestService) ListMine(ctx context.Context, actor models.Principal) ([]models.ItemRequest, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, ErrForbidden
	}
	return s.repo.ListByCustomer(ctx, actor.AccountID)
}

func (s *ItemRequestService) ListAll(ctx context.Context, actor models.Principal) ([]models.ItemRequestView, error) {
	if !actor.Is(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// SetStatus records the admin's handling of a request. Statuses are free-form.
func (s *ItemRequestService) SetStatus(ctx context.Context, actor models.Principal, id uint, status string) error {
	if !actor.Is(models.RoleAdmin) {
		return ErrForbidden
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return invalid("status", "is required")
	}
	if len(status) > maxStatusLen {
		return invalid("status", fmt.Sprintf("must be at most %d characters", maxStatusLen))
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item request %d: %w", id, ErrNotFound)
	}
	return nil
}
