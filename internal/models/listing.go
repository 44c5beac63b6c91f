package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus gates catalog visibility.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

// Listing represents a vendor's sellable service or product.
type Listing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	VendorID    uint            `json:"vendor_id" gorm:"not null;index"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Category    string          `json:"category" gorm:"type:varchar(100);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Status      ListingStatus   `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListingView is a listing joined with the owning vendor's display name.
type ListingView struct {
	Listing
	VendorName string `json:"vendor_name"`
}

// ListingUpdate carries the vendor-editable fields; nil means unchanged.
type ListingUpdate struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Description *string
}

func (u ListingUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	return cols
}
