package handlers

import (
	"fmt"

	"marketplace/internal/middleware"
	"marketplace/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ItemRequestHandler handles HTTP requests for customer item requests.
type ItemRequestHandler struct {
	service *services.ItemRequestService
}

func NewItemRequestHandler(service *services.ItemRequestService) *ItemRequestHandler {
	return &ItemRequestHandler{service: service}
}

func (h *ItemRequestHandler) RegisterCustomerRoutes(router fiber.Router) {
	router.Post("/requests", h.HandleSubmit)
	router.Get("/requests", h.HandleListMine)
}

func (h *ItemRequestHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/requests", h.HandleListAll)
	router.Patch("/requests/:id/status", h.HandleSetStatus)
}

func (h *ItemRequestHandler) HandleSubmit(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	var body struct {
		Description string `json:"description" form:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}
	req, err := h.service.Submit(c.UserContext(), p, body.Description)
	if err != nil {
		return writeError(c, "submit request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *ItemRequestHandler) HandleListMine(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	reqs, err := h.service.ListMine(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve requests", err)
	}
	return c.JSON(reqs)
}

func (h *ItemRequestHandler) HandleListAll(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	reqs, err := h.service.ListAll(c.UserContext(), p)
	if err != nil {
		return writeError(c, "retrieve requests", err)
	}
	return c.JSON(reqs)
}

func (h *ItemRequestHandler) HandleSetStatus(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}
	if err := h.service.SetStatus(c.UserContext(), p, id, body.Status); err != nil {
		return writeError(c, "update request status", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %d status updated to %s", id, body.Status),
	})
}
