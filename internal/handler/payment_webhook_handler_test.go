package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubRefundStore struct {
	refunded []string
	rows     int64
	err      error
}

func (s *stubRefundStore) MarkRefunded(transactionID string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.refunded = append(s.refunded, transactionID)
	return s.rows, nil
}

func newWebhookRig(secret string) (*gin.Engine, *stubRefundStore) {
	cfg := testConfig()
	cfg.Payment.WebhookSecret = secret
	store := &stubRefundStore{rows: 1}
	r := gin.New()
	r.POST("/api/v1/webhooks/payment", NewPaymentWebhookHandler(cfg, store).Handle)
	return r, store
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_RefundEvent(t *testing.T) {
	r, store := newWebhookRig("")
	body := `{"transaction_id":"TX-100","event":"refunded"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(store.refunded) != 1 || store.refunded[0] != "TX-100" {
		t.Errorf("refunded %v", store.refunded)
	}
}

func TestWebhook_UnknownEventAcknowledged(t *testing.T) {
	r, store := newWebhookRig("")
	body := `{"transaction_id":"TX-100","event":"completed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(store.refunded) != 0 {
		t.Errorf("unexpected refunds %v", store.refunded)
	}
}

func TestWebhook_SignatureEnforced(t *testing.T) {
	r, store := newWebhookRig("hook-secret")
	body := []byte(`{"transaction_id":"TX-100","event":"refunded"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(string(body)))
	req.Header.Set("X-Webhook-Signature", "deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: status %d, want 401", w.Code)
	}
	if len(store.refunded) != 0 {
		t.Errorf("bad signature caused refund %v", store.refunded)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(string(body)))
	req.Header.Set("X-Webhook-Signature", sign("hook-secret", body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("good signature: status %d, body %s", w.Code, w.Body.String())
	}
	if len(store.refunded) != 1 {
		t.Errorf("refunds %v", store.refunded)
	}
}

func TestWebhook_MissingTransactionID(t *testing.T) {
	r, _ := newWebhookRig("")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(`{"event":"refunded"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}
