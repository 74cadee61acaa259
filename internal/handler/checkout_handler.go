package handler

import (
	"errors"
	"log"
	"net/http"

	"modstore/internal/middleware"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	purchaseSvc *service.PurchaseService
}

func NewCheckoutHandler(purchaseSvc *service.PurchaseService) *CheckoutHandler {
	return &CheckoutHandler{purchaseSvc: purchaseSvc}
}

// Checkout records the completed payment the widget reported. The acting
// user comes from the bearer credential only; any user id in the body is
// ignored. Safe to retry: recording is idempotent per (product, transaction).
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req struct {
		Items         []service.CartItem `json:"items"`
		TransactionID string             `json:"transaction_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse request body"})
		return
	}
	purchases, err := h.purchaseSvc.Record(middleware.GetClaims(c), req.Items, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("checkout: tx %s: %v", req.TransactionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save purchase, please retry"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "purchases": purchases})
}
