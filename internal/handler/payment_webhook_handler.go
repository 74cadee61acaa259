package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"modstore/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RefundStore is the slice of the purchases repository the webhook needs.
type RefundStore interface {
	MarkRefunded(transactionID string) (int64, error)
}

// PaymentWebhookHandler is the external process allowed to transition ledger
// rows completed -> refunded. It never inserts entitlements; only the
// checkout path does that.
type PaymentWebhookHandler struct {
	cfg          *config.Config
	purchaseRepo RefundStore
}

func NewPaymentWebhookHandler(cfg *config.Config, purchaseRepo RefundStore) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, purchaseRepo: purchaseRepo}
}

// Handle expects JSON {"transaction_id": "...", "event": "refunded"} with an
// optional X-Webhook-Signature (hex HMAC-SHA256 of the raw body). Unknown
// transactions are acknowledged without effect so the provider stops
// retrying.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Payment.WebhookSecret != "" {
		if !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload struct {
		TransactionID string `json:"transaction_id"`
		Event         string `json:"event"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.TransactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id required"})
		return
	}
	eventID := uuid.New().String()
	if payload.Event == "refunded" {
		n, err := h.purchaseRepo.MarkRefunded(payload.TransactionID)
		if err != nil {
			log.Printf("webhook %s: refund of tx %s failed: %v", eventID, payload.TransactionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		log.Printf("webhook %s: tx %s refunded, %d rows", eventID, payload.TransactionID, n)
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "event_id": eventID})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.Payment.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
