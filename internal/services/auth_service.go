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

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, credential checks and session tokens.
type AuthService struct {
	accountRepo      repositories.AccountRepository
	jwtSecret        []byte
	tokenTTL         time.Duration
	allowAdminSignup bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repositories.AccountRepository, jwtSecret string, tokenTTL time.Duration, allowAdminSignup bool) *AuthService {
	return &AuthService{
		accountRepo:      accountRepo,
		jwtSecret:        []byte(jwtSecret),
		tokenTTL:         tokenTTL,
		allowAdminSignup: allowAdminSignup,
	}
}

// Registration is the input of Register.
type Registration struct {
	Role        models.Role
	Name        string
	Email       string
	Password    string
	Category    string
	Description string
}

// Register creates an account for the given role with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*models.Account, error) {
	if reg.Role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, fmt.Errorf("admin registration is closed: %w", ErrForbidden)
	}
	if _, ok := models.ParseRole(string(reg.Role)); !ok {
		return nil, invalid("role", "unknown role")
	}
	account := &models.Account{
		Role:        reg.Role,
		Name:        strings.TrimSpace(reg.Name),
		Email:       normalizeEmail(reg.Email),
		Category:    strings.TrimSpace(reg.Category),
		Description: strings.TrimSpace(reg.Description),
	}
	if account.Name == "" {
		return nil, invalid("name", "is required")
	}
	if reg.Role == models.RoleVendor && account.Category == "" {
		return nil, invalid("category", "is required for vendors")
	}
	if reg.Role != models.RoleVendor {
		account.Category, account.Description = "", ""
	}

	// Check if the email already exists for this role
	if existing, err := s.accountRepo.GetByEmail(ctx, account.Email, reg.Role); err == nil && existing != nil {
		return nil, invalid("email", "already registered")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.setPassword(account, reg.Password); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, invalid("email", "already registered")
		}
		return nil, fmt.Errorf("failed to register account: %w", err)
	}
	return account, nil
}

// EnsureAdmin creates the bootstrap admin account unless one with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	_, err := s.accountRepo.GetByEmail(ctx, email, models.RoleAdmin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	admin := &models.Account{Role: models.RoleAdmin, Name: name, Email: email}
	if err := s.setPassword(admin, password); err != nil {
		return err
	}
	if err := s.accountRepo.Create(ctx, admin); err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("[auth] bootstrap admin %s ready", email)
	return nil
}

// Login authenticates an account of the given role and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, role models.Role, email, password string) (string, *models.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, normalizeEmail(email), role)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Do not reveal whether the email exists
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": account.ID,
		"role":       string(account.Role),
		"email":      account.Email,
		"exp":        now.Add(s.tokenTTL).Unix(),
		"iat":        now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, account, nil
}

// ValidateToken parses and validates a session token, returning the principal it carries.
func (s *AuthService) ValidateToken(tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return models.Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, fmt.Errorf("invalid token")
	}
	id, ok := claims["account_id"].(float64)
	if !ok || id < 1 {
		return models.Principal{}, fmt.Errorf("invalid token: missing account_id")
	}
	roleClaim, _ := claims["role"].(string)
	role, ok := models.ParseRole(roleClaim)
	if !ok {
		return models.Principal{}, fmt.Errorf("invalid token: unknown role %q", roleClaim)
	}
	email, _ := claims["email"].(string)
	return models.Principal{AccountID: uint(id), Role: role, Email: email}, nil
}

func (s *AuthService) setPassword(account *models.Account, password string) error {
	if len(password) < 6 {
		return invalid("password", "must be at least 6 characters")
	}
	if len(password) > 72 {
		return invalid("password", "must be at most 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.PasswordHash = string(hashed)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
