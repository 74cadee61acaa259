package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"modstore/internal/auth"
	"modstore/internal/domain"
	"modstore/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseStore is the slice of the purchases repository the service needs.
type PurchaseStore interface {
	InsertIgnoreDuplicates(rows []models.Purchase) error
	ListByTransaction(userID uint, transactionID string, productIDs []string) ([]models.Purchase, error)
	HasCompleted(userID uint, productID string) (bool, error)
	ListCompletedByUser(userID uint) ([]models.Purchase, error)
}

// UserStore resolves an authenticated principal to a live account row.
type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

// CartItem is one line of the submitted cart, priced as seen at checkout.
type CartItem struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

// PurchaseService converts a payment confirmation into ledger rows and
// answers entitlement questions against them.
type PurchaseService struct {
	purchases PurchaseStore
	users     UserStore
}

func NewPurchaseService(purchases PurchaseStore, users UserStore) *PurchaseService {
	return &PurchaseService{purchases: purchases, users: users}
}

// verifyPrincipal re-derives the acting user from the presented credential.
// The claims come from a signature-checked token, and the account must still
// exist; a client-asserted user id is never accepted anywhere in this service.
func (s *PurchaseService) verifyPrincipal(claims *auth.Claims) (*models.User, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, nil
}

// Record writes one completed ledger row per cart item under transactionID.
// Re-submitting the same confirmation is idempotent per (product,
// transaction) pair: rows that already exist are returned as-is, genuinely
// new rows are inserted, and nothing is ever duplicated. On a storage
// failure no partial result is kept visible to the caller, so the whole
// batch is safe to retry.
func (s *PurchaseService) Record(claims *auth.Claims, items []CartItem, transactionID string) ([]models.Purchase, error) {
	user, err := s.verifyPrincipal(claims)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}
	var bad []string
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.ID) == "":
			bad = append(bad, fmt.Sprintf("item %d: missing product id", i))
		case math.IsNaN(item.Price) || math.IsInf(item.Price, 0):
			bad = append(bad, fmt.Sprintf("item %d (%s): price is not a finite number", i, item.ID))
		case item.Price < 0:
			bad = append(bad, fmt.Sprintf("item %d (%s): negative price", i, item.ID))
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(bad, "; "))
	}

	now := time.Now()
	rows := make([]models.Purchase, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.Purchase{
			UserID:        user.ID,
			ProductID:     item.ID,
			TransactionID: transactionID,
			Amount:        decimal.NewFromFloat(item.Price).Round(2),
			Status:        domain.PurchaseCompleted,
			PurchaseDate:  now,
		})
	}
	if err := s.purchases.InsertIgnoreDuplicates(rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Read back every row for the (user, transaction, products) set so the
	// caller gets pre-existing and newly inserted rows alike.
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	saved, err := s.purchases.ListByTransaction(user.ID, transactionID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Return in cart order, one row per distinct product.
	byProduct := make(map[string]models.Purchase, len(saved))
	for _, p := range saved {
		byProduct[p.ProductID] = p
	}
	out := make([]models.Purchase, 0, len(byProduct))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := byProduct[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// HasEntitlement reports whether userID owns a completed purchase of
// productID. Always a live ledger read; only completed rows count.
func (s *PurchaseService) HasEntitlement(userID uint, productID string) (bool, error) {
	ok, err := s.purchases.HasCompleted(userID, productID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ok, nil
}

// ListForUser returns the user's completed purchases, newest first.
func (s *PurchaseService) ListForUser(userID uint) ([]models.Purchase, error) {
	rows, err := s.purchases.ListCompletedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}
