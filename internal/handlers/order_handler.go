package handlers

import (
	"fmt"
	"log"

	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterCustomerRoutes mounts checkout and the customer's order history.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Get("/orders", h.HandleCustomerOrders)
	router.Get("/orders/:id", h.HandleGetOrder)
}

// RegisterVendorRoutes mounts the vendor's incoming orders.
func (h *OrderHandler) RegisterVendorRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleVendorOrders)
	router.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// RegisterAdminRoutes mounts the admin order views.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleAllOrders)
	router.Get("/orders/:id", h.HandleGetOrder)
	router.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutForm is the checkout body; it accepts JSON or a url-encoded form.
type CheckoutForm struct {
	models.ShippingDetails
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// HandleCheckout turns the caller's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	var form CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.Checkout(c.UserContext(), p, services.CheckoutRequest{
		Shipping:      form.ShippingDetails,
		PaymentMethod: form.PaymentMethod,
	})
	if err != nil {
		log.Printf("Error during checkout for customer %d: %v", p.AccountID, err)
		return writeError(c, "check out", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// HandleCustomerOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleCustomerOrders(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	orders, err := h.service.ListForCustomer(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleVendorOrders lists orders containing the calling vendor's items.
func (h *OrderHandler) HandleVendorOrders(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	orders, err := h.service.ListForVendor(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleAllOrders lists every order with its customer.
func (h *OrderHandler) HandleAllOrders(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	orders, err := h.service.ListAll(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one order with its items and customer.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	orderID, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	order, err := h.service.Get(c.UserContext(), p, orderID)
	if err != nil {
		return writeError(c, "retrieve order", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	orderID, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var updateData struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, err)
	}

	if err := h.service.UpdateStatus(c.UserContext(), p, orderID, updateData.Status); err != nil {
		log.Printf("Error updating order status for order %d: %v", orderID, err)
		return writeError(c, "update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d status updated successfully to %s", orderID, updateData.Status),
	})
}
