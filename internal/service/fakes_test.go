package service

import (
	"sync"

	"modstore/internal/domain"
	"modstore/internal/models"

	"gorm.io/gorm"
)

// fakePurchaseStore mimics the purchases table including the composite
// unique constraint, so idempotency behaves like it does against MySQL.
type fakePurchaseStore struct {
	mu         sync.Mutex
	rows       []models.Purchase
	nextID     uint
	insertErr  error
	listErr    error
	hasErr     error
	insertSeen int
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{nextID: 1}
}

func (f *fakePurchaseStore) InsertIgnoreDuplicates(rows []models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertSeen++
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, row := range rows {
		if f.find(row.UserID, row.ProductID, row.TransactionID) != nil {
			continue
		}
		row.ID = f.nextID
		f.nextID++
		f.rows = append(f.rows, row)
	}
	return nil
}

func (f *fakePurchaseStore) find(userID uint, productID, transactionID string) *models.Purchase {
	for i := range f.rows {
		r := &f.rows[i]
		if r.UserID == userID && r.ProductID == productID && r.TransactionID == transactionID {
			return r
		}
	}
	return nil
}

func (f *fakePurchaseStore) ListByTransaction(userID uint, transactionID string, productIDs []string) ([]models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	var out []models.Purchase
	for _, r := range f.rows {
		if r.UserID == userID && r.TransactionID == transactionID && want[r.ProductID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePurchaseStore) HasCompleted(userID uint, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasErr != nil {
		return false, f.hasErr
	}
	for _, r := range f.rows {
		if r.UserID == userID && r.ProductID == productID && r.Status == domain.PurchaseCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePurchaseStore) ListCompletedByUser(userID uint) ([]models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Purchase
	for _, r := range f.rows {
		if r.UserID == userID && r.Status == domain.PurchaseCompleted {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[uint]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[uint]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeLogStore struct {
	mu      sync.Mutex
	entries []models.DownloadLog
	err     error
}

func (f *fakeLogStore) Create(l *models.DownloadLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *l)
	return nil
}

func (f *fakeLogStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeLogStore) last() models.DownloadLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[len(f.entries)-1]
}
