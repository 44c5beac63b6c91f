package handlers

import (
	"encoding/json"
	"fmt"

	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for the catalog.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterCustomerRoutes mounts the customer catalog.
func (h *ListingHandler) RegisterCustomerRoutes(router fiber.Router) {
	router.Get("/catalog", h.HandleCatalog)
}

// RegisterVendorRoutes mounts the vendor's own listing management.
func (h *ListingHandler) RegisterVendorRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleVendorListings)
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
}

// RegisterAdminRoutes mounts listing moderation.
func (h *ListingHandler) RegisterAdminRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleAllListings)
	listingRoutes.Post("/:id/approve", h.handleSetStatus(models.ListingApproved))
	listingRoutes.Post("/:id/reject", h.handleSetStatus(models.ListingRejected))
}

// HandleCatalog lists approved listings, optionally filtered by ?category=.
func (h *ListingHandler) HandleCatalog(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	listings, err := h.service.ListApproved(c.UserContext(), p, c.Query("category"))
	if err != nil {
		return writeError(c, "retrieve catalog", err)
	}
	return c.JSON(listings)
}

// HandleVendorListings lists the calling vendor's listings in every status.
func (h *ListingHandler) HandleVendorListings(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	listings, err := h.service.ListByVendor(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve listings", err)
	}
	return c.JSON(listings)
}

// PriceInput holds a price sent either as a JSON number (19.9) or a string ("19.90").
// The text is parsed and checked by the listing service.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	*p = PriceInput(data)
	return nil
}

// CreateListingRequest is the body of a new listing.
type CreateListingRequest struct {
	Name        string     `json:"name" form:"name" validate:"required,max=100"`
	Category    string     `json:"category" form:"category" validate:"required,max=100"`
	Price       PriceInput `json:"price" form:"price" validate:"required"`
	Description string     `json:"description" form:"description" validate:"omitempty,max=2000"`
}

// HandleCreateListing creates a pending listing for the calling vendor.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	listing, err := h.service.CreateListing(c.UserContext(), p, services.NewListing{
		Name:        req.Name,
		Category:    req.Category,
		Price:       string(req.Price),
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, "create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListingRequest carries the fields to change; omitted fields stay as they are.
type UpdateListingRequest struct {
	Name        *string     `json:"name" form:"name" validate:"omitempty,max=100"`
	Category    *string     `json:"category" form:"category" validate:"omitempty,max=100"`
	Price       *PriceInput `json:"price" form:"price"`
	Description *string     `json:"description" form:"description" validate:"omitempty,max=2000"`
}

// HandleUpdateListing edits one of the calling vendor's listings. A listing owned by
// someone else is not touched; the response reports updated=false.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var req UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	updated, err := h.service.UpdateListing(c.UserContext(), p, id, services.ListingChanges{
		Name:        req.Name,
		Category:    req.Category,
		Price:       (*string)(req.Price),
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, "update listing", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Listing %d update processed", id),
		"updated": updated,
	})
}

// HandleDeleteListing deletes one of the calling vendor's listings; others are left alone.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	deleted, err := h.service.DeleteListing(c.UserContext(), p, id)
	if err != nil {
		return writeError(c, "delete listing", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Listing %d delete processed", id),
		"deleted": deleted,
	})
}

// HandleAllListings is the admin moderation list, optionally filtered by ?status=.
func (h *ListingHandler) HandleAllListings(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	listings, err := h.service.ListAll(c.UserContext(), p, c.Query("status"))
	if err != nil {
		return writeError(c, "retrieve listings", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) handleSetStatus(status models.ListingStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return unauthenticated(c)
		}
		id, ok := idParam(c)
		if !ok {
			return badID(c)
		}
		if err := h.service.SetStatus(c.UserContext(), p, id, status); err != nil {
			return writeError(c, "change listing status", err)
		}
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Listing %d %s", id, status),
		})
	}
}
