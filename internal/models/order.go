package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusReceived is the status every order starts in. Later statuses are free-form.
const OrderStatusReceived = "Received"

// OrderLineItem represents a single item within an order.
type OrderLineItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	ListingID   uint            `json:"listing_id" gorm:"not null;index"` // soft reference, the listing may be deleted later
	VendorID    uint            `json:"vendor_id" gorm:"not null;index"`
	ListingName string          `json:"listing_name" gorm:"type:varchar(100)"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"` // Price at the time of order
}

// ShippingDetails is the contact snapshot taken at checkout.
type ShippingDetails struct {
	Name       string `json:"name" form:"name" gorm:"type:varchar(100)" validate:"required"`
	Email      string `json:"email" form:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Address    string `json:"address" form:"address" gorm:"type:varchar(255)" validate:"required"`
	City       string `json:"city" form:"city" gorm:"type:varchar(100)" validate:"required"`
	State      string `json:"state" form:"state" gorm:"type:varchar(100)" validate:"required"`
	PostalCode string `json:"postal_code" form:"postal_code" gorm:"type:varchar(20)" validate:"required"`
	Phone      string `json:"phone" form:"phone" gorm:"type:varchar(40)" validate:"required"`
}

// Order represents a completed purchase. Total is fixed at creation.
type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Reference     string          `json:"reference" gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID    uint            `json:"customer_id" gorm:"not null;index"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Status        string          `json:"status" gorm:"type:varchar(40);not null"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(40);not null"`
	Shipping      ShippingDetails `json:"shipping" gorm:"embedded;embeddedPrefix:ship_"`
	Items         []OrderLineItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CustomerOrderView is an order joined with the purchasing customer (admin view).
type CustomerOrderView struct {
	Order
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// VendorOrderView is an order reduced to one vendor's line items.
type VendorOrderView struct {
	OrderID   uint            `json:"order_id"`
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Shipping  ShippingDetails `json:"shipping"`
	Items     []OrderLineItem `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
