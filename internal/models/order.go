package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem represents a single line within an order. It references the menu
// item it was resolved against; the price always comes from that menu item,
// never from client input.
type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"-" gorm:"index;not null"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null"`
	MenuItem   MenuItem `json:"menu_item" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity"`
}

// Order represents a customer order. The owning user is referenced by ID
// only; use OrderRepository.ListByUser to navigate the other way.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"index;not null"`
	CustomerPhone   string          `json:"customer_phone" gorm:"type:varchar(50)"`
	CustomerAddress string          `json:"customer_address" gorm:"type:varchar(255)"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2)"`
	Delivered       bool            `json:"delivered"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	OrderedAt       time.Time       `json:"ordered_at"`
}

// OrderSummary is an open order enriched with the customer's display name,
// as shown on the kitchen's order board.
type OrderSummary struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Delivered       bool            `json:"delivered"`
	Items           []OrderItem     `json:"items"`
	OrderedAt       time.Time       `json:"ordered_at"`
}

// OrderItemRequest is a single requested line in an incoming order.
type OrderItemRequest struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required"`
}

// OrderRequest represents the request body for placing an order.
type OrderRequest struct {
	CustomerPhone   string             `json:"customer_phone" validate:"required,max=50"`
	CustomerAddress string             `json:"customer_address" validate:"required,max=255"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}
