package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"modstore/internal/auth"
	"modstore/internal/domain"
	"modstore/internal/models"
	"modstore/pkg/storage"
)

// DownloadLogStore receives audit rows for issued links.
type DownloadLogStore interface {
	Create(l *models.DownloadLog) error
}

// RequestContext is the best-effort identity context captured per download.
type RequestContext struct {
	IP        string
	UserAgent string
}

// DownloadService gates artifact access on the entitlement ledger and turns
// a granted request into a short-lived signed storage URL.
type DownloadService struct {
	purchases *PurchaseService
	users     UserStore
	store     storage.Client
	logs      DownloadLogStore
	urlExpiry time.Duration
}

func NewDownloadService(purchases *PurchaseService, users UserStore, store storage.Client, logs DownloadLogStore, urlExpiry time.Duration) *DownloadService {
	if urlExpiry <= 0 {
		urlExpiry = 300 * time.Second
	}
	return &DownloadService{
		purchases: purchases,
		users:     users,
		store:     store,
		logs:      logs,
		urlExpiry: urlExpiry,
	}
}

// ArtifactPath returns the canonical object path for a product's current build.
func ArtifactPath(productID string) string {
	return productID + "/" + productID + domain.ArtifactSuffix
}

// Authorize re-verifies the principal, checks the ledger, and issues a
// signed download URL. The audit write is fire-and-forget: it may be dropped
// on backend failure and never affects the returned URL.
func (s *DownloadService) Authorize(ctx context.Context, claims *auth.Claims, productID string, rc RequestContext) (string, error) {
	user, err := s.purchases.verifyPrincipal(claims)
	if err != nil {
		return "", err
	}
	entitled, err := s.purchases.HasEntitlement(user.ID, productID)
	if err != nil {
		return "", err
	}
	if !entitled {
		return "", fmt.Errorf("%w: user %d, product %s", ErrNotEntitled, user.ID, productID)
	}

	path := ArtifactPath(productID)
	ok, err := s.store.Exists(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	url, err := s.store.SignedDownloadURL(ctx, path, s.urlExpiry, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	entry := &models.DownloadLog{
		UserID:    user.ID,
		ProductID: productID,
		IP:        rc.IP,
		UserAgent: rc.UserAgent,
		SteamName: user.SteamUsername,
	}
	if user.SteamID != nil {
		entry.SteamID = *user.SteamID
	}
	go func() {
		if err := s.logs.Create(entry); err != nil {
			log.Printf("download audit: user %d product %s: %v", entry.UserID, entry.ProductID, err)
		}
	}()

	return url, nil
}
