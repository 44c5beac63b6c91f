package handlers

import (
	"fmt"

	"marketplace/internal/middleware"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the customer's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes on the customer router.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveLine)
	cartRoutes.Delete("/", h.HandleClear)
}

// HandleGetCart returns the cart priced at current catalog prices.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	summary, err := h.service.ListWithTotals(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve cart", err)
	}
	return c.JSON(summary)
}

// AddItemRequest is the body of an add-to-cart. Quantity defaults to 1.
type AddItemRequest struct {
	ListingID uint `json:"listing_id" form:"listing_id" validate:"required"`
	VendorID  uint `json:"vendor_id" form:"vendor_id"`
	Quantity  *int `json:"quantity" form:"quantity"`
}

// HandleAddItem adds a listing to the cart or increases the quantity of its line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.service.AddItem(c.UserContext(), p, req.ListingID, req.VendorID, quantity); err != nil {
		return writeError(c, "add item to cart", err)
	}
	summary, err := h.service.ListWithTotals(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleRemoveLine removes one of the caller's cart lines.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	removed, err := h.service.RemoveLine(c.UserContext(), p, id)
	if err != nil {
		return writeError(c, "remove cart line", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Cart line %d remove processed", id),
		"removed": removed,
	})
}

// HandleClear empties the caller's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.service.Clear(c.UserContext(), p); err != nil {
		return writeError(c, "clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
