package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Vendor order status scopes.
const (
	VendorScopeOwnItems = "own_items"
	VendorScopeAny      = "any"
)

type Config struct {
	AppEnv            string
	AppPort           string
	DBDriver          string
	DatabaseDSN       string
	JWTSecret         string
	TokenTTL          time.Duration
	SessionCookie     string
	CookieSecure      bool
	RabbitMQURL       string
	EventsExchange    string
	VendorStatusScope string
	AllowAdminSignup  bool
	AdminName         string
	AdminEmail        string
	AdminPassword     string
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load() // load .env if it exists
	return FromViper(viper.New())
}

// FromViper applies defaults to v, binds the environment and validates the result.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "marketplace.db?_txlock=immediate&_busy_timeout=5000")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "marketplace_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "marketplace.events")
	v.SetDefault("VENDOR_STATUS_SCOPE", VendorScopeOwnItems)
	v.SetDefault("ALLOW_ADMIN_SIGNUP", false)
	v.SetDefault("ADMIN_NAME", "Administrator")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.AutomaticEnv() // Load environment variables

	cfg := Config{
		AppEnv:            v.GetString("APP_ENV"),
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionCookie:     v.GetString("SESSION_COOKIE"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		EventsExchange:    v.GetString("EVENTS_EXCHANGE"),
		VendorStatusScope: v.GetString("VENDOR_STATUS_SCOPE"),
		AllowAdminSignup:  v.GetBool("ALLOW_ADMIN_SIGNUP"),
		AdminName:         v.GetString("ADMIN_NAME"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
	}

	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q", v.GetString("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.VendorStatusScope {
	case VendorScopeOwnItems, VendorScopeAny:
	default:
		return Config{}, fmt.Errorf("unsupported VENDOR_STATUS_SCOPE %q", cfg.VendorStatusScope)
	}
	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "development" {
			return Config{}, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "dev-only-secret"
		log.Printf("[config] JWT_SECRET not set, using development secret")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	log.Printf("[config] APP_PORT=%s DB_DRIVER=%s VENDOR_STATUS_SCOPE=%s", cfg.AppPort, cfg.DBDriver, cfg.VendorStatusScope)
	return cfg, nil
}
