package models

import "time"

const ItemRequestPending = "Pending"

// ItemRequest is a customer's free-text ask for something the catalog does not carry.
type ItemRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CustomerID  uint      `json:"customer_id" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Status      string    `json:"status" gorm:"type:varchar(40);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemRequestView adds the requesting customer's name for the admin queue.
type ItemRequestView struct {
	ItemRequest
	CustomerName string `json:"customer_name"`
}
