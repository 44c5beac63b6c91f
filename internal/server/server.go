package server

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers onto a Fiber app. pub may be nil,
// in which case domain events are dropped.
func New(ctx context.Context, cfg config.Config, db *gorm.DB, pub services.EventPublisher) (*fiber.App, error) {
	// --- Repositories ---
	accountRepo := repositories.NewGORMAccountRepository(db)
	listingRepo := repositories.NewGORMListingRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	requestRepo := repositories.NewGORMItemRequestRepository(db)
	transactor := repositories.NewGORMTransactor(db)

	// --- Services ---
	events := services.NewEvents(pub, cfg.EventsExchange)
	authService := services.NewAuthService(accountRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.AllowAdminSignup)
	listingService := services.NewListingService(listingRepo, events)
	cartService := services.NewCartService(cartRepo, listingRepo)
	orderService := services.NewOrderService(transactor, orderRepo, accountRepo, events, services.VendorStatusScope(cfg.VendorStatusScope))
	requestService := services.NewItemRequestService(requestRepo)

	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, handlers.SessionCookie{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
		TTL:    cfg.TokenTTL,
	})
	listingHandler := handlers.NewListingHandler(listingService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	requestHandler := handlers.NewItemRequestHandler(requestService)

	app := fiber.New(fiber.Config{
		AppName: "marketplace",
	})

	// --- Middleware ---
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": pub != nil,
		})
	})

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	authRequired := middleware.AuthRequired(authService, cfg.SessionCookie)

	customer := apiV1.Group("/customer", authRequired, middleware.RequireRole(models.RoleCustomer))
	listingHandler.RegisterCustomerRoutes(customer)
	cartHandler.RegisterRoutes(customer)
	orderHandler.RegisterCustomerRoutes(customer)
	requestHandler.RegisterCustomerRoutes(customer)

	vendor := apiV1.Group("/vendor", authRequired, middleware.RequireRole(models.RoleVendor))
	listingHandler.RegisterVendorRoutes(vendor)
	orderHandler.RegisterVendorRoutes(vendor)

	admin := apiV1.Group("/admin", authRequired, middleware.RequireRole(models.RoleAdmin))
	listingHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	requestHandler.RegisterAdminRoutes(admin)

	return app, nil
}
