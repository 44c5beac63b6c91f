package handlers

import (
	"fmt"
	"log"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	cookie      SessionCookie
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Post("/:role/register", h.HandleRegister)
	authRoutes.Post("/:role/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=6,max=72"`
	Category    string `json:"category" form:"category" validate:"omitempty,max=100"`
	Description string `json:"description" form:"description" validate:"omitempty,max=2000"`
}

// HandleRegister handles new account registration for the role in the path.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	role, ok := models.ParseRole(c.Params("role"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Unknown role %q", c.Params("role")),
		})
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	account, err := h.authService.Register(c.UserContext(), services.Registration{
		Role:        role,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, "register account", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account registered successfully",
		"account": account,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin handles login for the role in the path and issues a session token,
// both in the body and as an HttpOnly cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	role, ok := models.ParseRole(c.Params("role"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Unknown role %q", c.Params("role")),
		})
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	token, account, err := h.authService.Login(c.UserContext(), role, req.Email, req.Password)
	if err != nil {
		log.Printf("Error during %s login for %s: %v", role, req.Email, err)
		return writeError(c, "log in", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"account": account,
	})
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.ClearCookie(h.cookie.Name)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
