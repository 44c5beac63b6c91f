package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorStatusScope decides which orders a vendor may move to a new status.
type VendorStatusScope string

const (
	// VendorScopeOwnItems limits vendors to orders holding at least one of their line items.
	VendorScopeOwnItems VendorStatusScope = "own_items"
	// VendorScopeAny lets a vendor update any order.
	VendorScopeAny VendorStatusScope = "any"
)

const maxStatusLen = 40

// CheckoutRequest carries the contact snapshot and payment label of a checkout.
type CheckoutRequest struct {
	Shipping      models.ShippingDetails
	PaymentMethod string `json:"payment_method" validate:"required,max=40"`
}

func (r CheckoutRequest) trimmed() CheckoutRequest {
	sd := &r.Shipping
	for _, f := range []*string{&sd.Name, &sd.Email, &sd.Address, &sd.City, &sd.State, &sd.PostalCode, &sd.Phone, &r.PaymentMethod} {
		*f = strings.TrimSpace(*f)
	}
	return r
}

// OrderService turns carts into orders and moves orders through their statuses.
type OrderService struct {
	tx          repositories.Transactor
	orderRepo   repositories.OrderRepository
	accountRepo repositories.AccountRepository
	events      *Events
	vendorScope VendorStatusScope
	validate    *validator.Validate
	now         func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(tx repositories.Transactor, orderRepo repositories.OrderRepository, accountRepo repositories.AccountRepository, events *Events, vendorScope VendorStatusScope) *OrderService {
	return &OrderService{
		tx:          tx,
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		events:      events,
		vendorScope: vendorScope,
		validate:    newValidator(),
		now:         time.Now,
	}
}

// Checkout converts the caller's cart into an order priced at the prices read while
// the cart is locked, then empties the cart. Order, line items and the cart clear
// commit or roll back together.
func (s *OrderService) Checkout(ctx context.Context, actor models.Principal, req CheckoutRequest) (*models.Order, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, ErrForbidden
	}
	req = req.trimmed()

	var order *models.Order
	err := s.tx.WithinTransaction(ctx, func(tx repositories.Tx) error {
		lines, err := tx.Carts.LockLines(ctx, actor.AccountID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		if err := s.validate.Struct(req); err != nil {
			return fromValidator(err)
		}

		summary := models.Summarize(lines)
		now := s.now()
		o := &models.Order{
			Reference:     newOrderReference(now),
			CustomerID:    actor.AccountID,
			Total:         summary.GrandTotal,
			Status:        models.OrderStatusReceived,
			PaymentMethod: req.PaymentMethod,
			Shipping:      req.Shipping,
			Items:         make([]models.OrderLineItem, 0, len(summary.Lines)),
		}
		for _, line := range summary.Lines {
			o.Items = append(o.Items, models.OrderLineItem{
				ListingID:   line.ListingID,
				VendorID:    line.VendorID,
				ListingName: line.Name,
				Quantity:    line.Quantity,
				Price:       line.UnitPrice,
			})
		}

		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		if _, err := tx.Carts.Clear(ctx, actor.AccountID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[orders] customer %d placed order %s total %s", order.CustomerID, order.Reference, order.Total)
	s.events.emit("order.created", map[string]interface{}{
		"orderID":   order.ID,
		"reference": order.Reference,
		"userID":    order.CustomerID,
		"status":    order.Status,
		"total":     order.Total,
		"items":     len(order.Items),
	})
	return order, nil
}

// ListForCustomer returns the caller's orders, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, actor models.Principal) ([]models.Order, error) {
	if !actor.Is(models.RoleCustomer) {
		return nil, ErrForbidden
	}
	return s.orderRepo.ListByCustomer(ctx, actor.AccountID)
}

// Get returns one order with its items and the purchasing customer. Customers only see
// their own orders; anyone else's order is reported as not found.
func (s *OrderService) Get(ctx context.Context, actor models.Principal, orderID uint) (*models.CustomerOrderView, error) {
	if !actor.Is(models.RoleCustomer) && !actor.Is(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if actor.Role == models.RoleCustomer && order.CustomerID != actor.AccountID {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	customer, err := s.accountRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer of order %d: %w", orderID, err)
	}
	return &models.CustomerOrderView{
		Order:         *order,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
	}, nil
}

// ListAll returns every order with the purchasing customer's identity, newest first.
func (s *OrderService) ListAll(ctx context.Context, actor models.Principal) ([]models.CustomerOrderView, error) {
	if !actor.Is(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			ids = append(ids, o.CustomerID)
		}
	}
	accounts, err := s.accountRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	views := make([]models.CustomerOrderView, 0, len(orders))
	for _, o := range orders {
		c := byID[o.CustomerID]
		views = append(views, models.CustomerOrderView{Order: o, CustomerName: c.Name, CustomerEmail: c.Email})
	}
	return views, nil
}

// ListForVendor returns the orders that contain the caller's line items, each reduced
// to those items and their subtotal.
func (s *OrderService) ListForVendor(ctx context.Context, actor models.Principal) ([]models.VendorOrderView, error) {
	if !actor.Is(models.RoleVendor) {
		return nil, ErrForbidden
	}
	items, err := s.orderRepo.ListItemsByVendor(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uint][]models.OrderLineItem)
	ids := make([]uint, 0)
	for _, it := range items {
		if _, ok := byOrder[it.OrderID]; !ok {
			ids = append(ids, it.OrderID)
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	orders, err := s.orderRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.VendorOrderView, 0, len(orders))
	for _, o := range orders {
		own := byOrder[o.ID]
		subtotal := decimal.Zero
		for _, it := range own {
			subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		views = append(views, models.VendorOrderView{
			OrderID:   o.ID,
			Reference: o.Reference,
			Status:    o.Status,
			Shipping:  o.Shipping,
			Items:     own,
			Subtotal:  subtotal,
			CreatedAt: o.CreatedAt,
		})
	}
	return views, nil
}

// UpdateStatus overwrites the status of a whole order. Admins may update any order;
// vendors are limited by the configured VendorStatusScope. Transitions are not checked.
func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Principal, orderID uint, status string) error {
	status = strings.TrimSpace(status)
	switch {
	case actor.Is(models.RoleAdmin):
	case actor.Is(models.RoleVendor):
		if s.vendorScope != VendorScopeAny {
			owns, err := s.orderRepo.HasVendorItems(ctx, orderID, actor.AccountID)
			if err != nil {
				return err
			}
			if !owns {
				return fmt.Errorf("order %d holds no items of vendor %d: %w", orderID, actor.AccountID, ErrForbidden)
			}
		}
	default:
		return ErrForbidden
	}
	if status == "" {
		return invalid("status", "is required")
	}
	if len(status) > maxStatusLen {
		return invalid("status", fmt.Sprintf("must be at most %d characters", maxStatusLen))
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	s.events.emit("order.status_changed", map[string]interface{}{
		"orderID": orderID,
		"status":  status,
		"role":    actor.Role,
		"actorID": actor.AccountID,
	})
	return nil
}

// newOrderReference builds a sortable, unique order reference, e.g. 20250908130500-<uuid>.
func newOrderReference(t time.Time) string {
	return t.UTC().Format("20060102150405") + "-" + uuid.NewString()
}
