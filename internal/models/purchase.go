package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one entitlement ledger row: a single product covered by a
// single checkout transaction for a single user. A completed row is the sole
// source of truth for download authorization. Rows are never hard-deleted;
// the only status transition after insert is completed -> refunded.
//
// The composite unique index makes duplicate submissions of the same
// checkout confirmation collide at the database level, which is what keeps
// recording idempotent under concurrent retries.
type Purchase struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index;uniqueIndex:idx_purchases_user_product_tx" json:"user_id"`
	ProductID     string          `gorm:"size:64;not null;uniqueIndex:idx_purchases_user_product_tx" json:"product_id"`
	TransactionID string          `gorm:"size:255;not null;uniqueIndex:idx_purchases_user_product_tx" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string          `gorm:"size:20;not null;index" json:"status"` // completed, failed, refunded
	PurchaseDate  time.Time       `gorm:"not null" json:"purchase_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Purchase) TableName() string {
	return "purchases"
}
