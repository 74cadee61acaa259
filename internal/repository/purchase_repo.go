package repository

import (
	"modstore/internal/domain"
	"modstore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// InsertIgnoreDuplicates inserts the batch in one statement, skipping rows
// that collide on idx_purchases_user_product_tx. Two concurrent submissions
// of the same checkout race at the database, exactly one wins each row, and
// the loser sees no error. This is the only concurrency-sensitive write in
// the system; never replace it with a check-then-insert.
func (r *PurchaseRepository) InsertIgnoreDuplicates(rows []models.Purchase) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "transaction_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// ListByTransaction returns every row a checkout produced, inserted by this
// call or a previous one, ordered to match the submitted cart.
func (r *PurchaseRepository) ListByTransaction(userID uint, transactionID string, productIDs []string) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.db.
		Where("user_id = ? AND transaction_id = ? AND product_id IN ?", userID, transactionID, productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasCompleted reports whether a completed ledger row exists for the pair.
// Always a live read: entitlement is never cached.
func (r *PurchaseRepository) HasCompleted(userID uint, productID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, domain.PurchaseCompleted).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PurchaseRepository) ListCompletedByUser(userID uint) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := r.db.
		Where("user_id = ? AND status = ?", userID, domain.PurchaseCompleted).
		Order("purchase_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRefunded flips completed rows of a transaction to refunded and
// returns how many rows changed. Rows are never deleted.
func (r *PurchaseRepository) MarkRefunded(transactionID string) (int64, error) {
	res := r.db.Model(&models.Purchase{}).
		Where("transaction_id = ? AND status = ?", transactionID, domain.PurchaseCompleted).
		Update("status", domain.PurchaseRefunded)
	return res.RowsAffected, res.Error
}
