package handler

import (
	"net/http"

	"modstore/internal/middleware"
	"modstore/internal/repository"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo    *repository.UserRepository
	purchaseSvc *service.PurchaseService
}

func NewMeHandler(userRepo *repository.UserRepository, purchaseSvc *service.PurchaseService) *MeHandler {
	return &MeHandler{userRepo: userRepo, purchaseSvc: purchaseSvc}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         u,
		"providers":    u.Providers(),
		"steam_linked": u.SteamID != nil,
	})
}

// GetPurchases lists the user's completed purchases, the same rows that
// gate downloads.
func (h *MeHandler) GetPurchases(c *gin.Context) {
	purchases, err := h.purchaseSvc.ListForUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
