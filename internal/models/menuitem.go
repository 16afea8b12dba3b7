package models

import "github.com/shopspring/decimal"

// MenuItem represents a dish on the restaurant menu. From the order flow's
// perspective menu items are read-only reference data.
type MenuItem struct {
	ID    uint            `json:"id" gorm:"primaryKey"`
	Name  string          `json:"name" gorm:"type:varchar(100)"`
	Price decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
}
