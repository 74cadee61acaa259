package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable mod. The ID doubles as the storage path prefix
// for the downloadable artifact.
type Product struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"size:64;index" json:"category"`
	ImageURL    string          `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
