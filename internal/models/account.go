package models

import "time"

// Role tags an account with the surface it may use.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a path or form value onto a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Account represents a customer, vendor or admin of the marketplace.
// Email is unique per role, so one person may hold a customer and a vendor account.
type Account struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email_role"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_accounts_email_role"`
	Category     string    `json:"category,omitempty" gorm:"type:varchar(100)"` // vendors only
	Description  string    `json:"description,omitempty" gorm:"type:text"`      // vendors only
	CreatedAt    time.Time `json:"created_at"`
}
