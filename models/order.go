package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusCancelled OrderStatus = "cancelled"
	StatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Order represents a customer's dress order.
// JSON names match the orders.json format written by the file store.
type Order struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Phone       string      `gorm:"not null" json:"phone"`
	Email       string      `gorm:"not null;index" json:"email"` // lowercase, used as the ownership credential
	Address     string      `gorm:"not null" json:"address"`
	DressID     string      `gorm:"not null" json:"dressId"` // not checked against the catalog
	Size        string      `gorm:"not null" json:"size"`
	Quantity    int         `gorm:"not null" json:"quantity"`
	Notes       string      `json:"notes"`
	Status      OrderStatus `gorm:"not null;default:'received'" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   *time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
	CancelledAt *time.Time  `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OwnedBy reports whether email matches the order's email, ignoring case
func (o *Order) OwnedBy(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.EqualFold(o.Email, email)
}
