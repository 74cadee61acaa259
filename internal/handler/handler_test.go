package handler

import (
	"sync"
	"time"

	"modstore/config"
	"modstore/internal/domain"
	"modstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  time.Hour,
			RefreshExpiry: time.Hour,
			Issuer:        "modstore-test",
		},
		Storage: config.StorageConfig{URLExpiry: 300 * time.Second},
		Frontend: config.FrontendConfig{
			BaseURL:     "https://store.example.com",
			SignInPath:  "/auth/signin",
			StorePath:   "/store",
			AccountPath: "/account",
		},
	}
}

type stubUserStore struct {
	users map[uint]*models.User
}

func (s *stubUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type stubPurchaseStore struct {
	mu     sync.Mutex
	rows   []models.Purchase
	nextID uint
}

func (s *stubPurchaseStore) InsertIgnoreDuplicates(rows []models.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		dup := false
		for _, have := range s.rows {
			if have.UserID == row.UserID && have.ProductID == row.ProductID && have.TransactionID == row.TransactionID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		s.nextID++
		row.ID = s.nextID
		s.rows = append(s.rows, row)
	}
	return nil
}

func (s *stubPurchaseStore) ListByTransaction(userID uint, transactionID string, productIDs []string) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	var out []models.Purchase
	for _, r := range s.rows {
		if r.UserID == userID && r.TransactionID == transactionID && want[r.ProductID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubPurchaseStore) HasCompleted(userID uint, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserID == userID && r.ProductID == productID && r.Status == domain.PurchaseCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPurchaseStore) ListCompletedByUser(userID uint) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Purchase
	for _, r := range s.rows {
		if r.UserID == userID && r.Status == domain.PurchaseCompleted {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubLogStore struct{}

func (stubLogStore) Create(*models.DownloadLog) error { return nil }
