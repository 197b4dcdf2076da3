package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledgercore/internal/config"
	"ledgercore/internal/repository"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:                 "test",
		VarianceWarningPct:  1.0,
		VarianceCriticalPct: 5.0,
		BankTxDeletePolicy:  config.DeletePolicyReverse,
		RateLimitPerMinute:  10000,
	}

	now := func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	docRepo := repository.NewDocumentRepository(uuid.New, now)
	bankRepo := repository.NewBankRepository(uuid.New, now)
	cashRepo := repository.NewCashRepository(uuid.New, now)
	stockRepo := repository.NewStockRepository(uuid.New, now)
	saleRepo := repository.NewSaleRepository(uuid.New, now)

	bank := service.NewBankService(bankRepo, cfg)
	cash := service.NewCashService(cashRepo, cfg)
	return New(cfg, Services{
		Documents: service.NewDocumentService(docRepo),
		Bank:      bank,
		Cash:      cash,
		Stock:     service.NewStockService(stockRepo),
		Payments:  service.NewPaymentService(docRepo, bank, cash),
		Sales:     service.NewSaleService(saleRepo, stockRepo, cashRepo, nil),
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/v1/invoices", map[string]interface{}{
		"counterparty_name": "Acme",
		"items": []map[string]interface{}{
			{"description": "Consulting", "quantity": "2", "unit_price": "100"},
		},
		"discount_type":  "percent",
		"discount_value": "10",
		"tax_rate":       "19",
		"status":         "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	assert.Equal(t, "INV-000001", created["sequence"])
	assert.Equal(t, "214.2", created["total"])
	id := created["id"].(string)

	w = do(t, r, http.MethodGet, "/v1/documents/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodDelete, "/v1/documents/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/v1/documents/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/v1/invoices", map[string]interface{}{
		"items":  []map[string]interface{}{{"description": "X", "quantity": "1", "unit_price": "50"}},
		"status": "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	docID := decodeBody(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/v1/bank/accounts", map[string]interface{}{
		"name": "Operating", "currency": "EUR",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	accountID := decodeBody(t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/v1/payments", map[string]interface{}{
		"kind":        "sales",
		"document_id": docID,
		"amount":      "50",
		"method":      "bank",
		"account_id":  accountID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "paid", decodeBody(t, w)["document_status"])

	w = do(t, r, http.MethodGet, "/v1/bank/accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "50", decodeBody(t, w)["balance"])

	// Paying again conflicts.
	w = do(t, r, http.MethodPost, "/v1/payments", map[string]interface{}{
		"kind":        "sales",
		"document_id": docID,
		"amount":      "50",
		"method":      "bank",
		"account_id":  accountID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCashSessionConflictOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/v1/cash/sessions", map[string]interface{}{
		"operator": "ana", "opening_balance": "100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/v1/cash/sessions", map[string]interface{}{
		"operator": "bob", "opening_balance": "50",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// Missing required fields → 422 with a fields map.
	w := do(t, r, http.MethodPost, "/v1/payments", map[string]interface{}{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["fields"])

	// Malformed id in the path → 400.
	w = do(t, r, http.MethodGet, "/v1/documents/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed JSON body → 400.
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
