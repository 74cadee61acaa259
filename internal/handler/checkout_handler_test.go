package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"modstore/internal/auth"
	"modstore/internal/domain"
	"modstore/internal/middleware"
	"modstore/internal/models"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
)

func newCheckoutRig(t *testing.T) (*gin.Engine, *stubPurchaseStore, string) {
	t.Helper()
	cfg := testConfig()
	users := &stubUserStore{users: map[uint]*models.User{
		1: {ID: 1, Email: "u1@example.com", Role: domain.RoleUser},
	}}
	store := &stubPurchaseStore{}
	svc := service.NewPurchaseService(store, users)

	r := gin.New()
	r.POST("/api/v1/checkout", middleware.AuthRequired(&cfg.JWT), NewCheckoutHandler(svc).Checkout)

	token, err := auth.GenerateAccessToken(&cfg.JWT, 1, "u1@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return r, store, token
}

func TestCheckout_Success(t *testing.T) {
	r, store, token := newCheckoutRig(t)
	body := `{"items":[{"id":"weather-system","price":14.99}],"transaction_id":"TX-100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success   bool              `json:"success"`
		Purchases []models.Purchase `json:"purchases"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Purchases) != 1 {
		t.Fatalf("response %+v", resp)
	}
	if resp.Purchases[0].UserID != 1 || resp.Purchases[0].TransactionID != "TX-100" {
		t.Errorf("row %+v", resp.Purchases[0])
	}
	if len(store.rows) != 1 {
		t.Errorf("ledger rows = %d", len(store.rows))
	}
}

func TestCheckout_RequiresCredential(t *testing.T) {
	r, store, _ := newCheckoutRig(t)
	body := `{"items":[{"id":"weather-system","price":14.99}],"transaction_id":"TX-100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if len(store.rows) != 0 {
		t.Errorf("unauthenticated request wrote %d rows", len(store.rows))
	}
}

// A user_id in the body must never override the credential: the row lands
// under the token's user even when the payload claims someone else.
func TestCheckout_BodyUserIDIgnored(t *testing.T) {
	r, store, token := newCheckoutRig(t)
	body := `{"user_id":999,"items":[{"id":"weather-system","price":14.99}],"transaction_id":"TX-100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(store.rows) != 1 || store.rows[0].UserID != 1 {
		t.Fatalf("expected row owned by user 1, got %+v", store.rows)
	}
}

func TestCheckout_TamperedToken(t *testing.T) {
	r, store, token := newCheckoutRig(t)
	tampered := token[:len(token)-2] + "xx"
	body := `{"items":[{"id":"weather-system","price":14.99}],"transaction_id":"TX-100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tampered)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if len(store.rows) != 0 {
		t.Errorf("tampered token wrote %d rows", len(store.rows))
	}
}

func TestCheckout_InvalidPayload(t *testing.T) {
	r, _, token := newCheckoutRig(t)
	cases := []struct {
		name string
		body string
	}{
		{"empty items", `{"items":[],"transaction_id":"TX-1"}`},
		{"missing transaction", `{"items":[{"id":"weather-system","price":14.99}]}`},
		{"negative price", `{"items":[{"id":"weather-system","price":-5}],"transaction_id":"TX-1"}`},
		{"not json", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400, body %s", w.Code, w.Body.String())
			}
		})
	}
}
