package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = uint(1)

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// testRouter wires the ledger-backed endpoints against an in-memory store,
// with a stub in place of the JWT middleware.
func testRouter(store *ledger.MemStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := ledger.NewService(store)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Next()
	})

	orderHandler := &OrderHandler{Ledger: svc}
	r.POST("/api/v1/orders", orderHandler.Create)

	paymentHandler := &PaymentHandler{Ledger: svc}
	r.POST("/api/v1/payments", paymentHandler.Register)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: testUserID, Name: "Maria", Debt: mustDec("0")})
	product := store.AddProduct(models.Product{UserID: testUserID, Name: "Sugar 1kg", SalePrice: mustDec("2.50"), Stock: 40})
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id":    customer.ID,
		"payment_method": models.PaymentMethodCredit,
		"advance":        "10.00",
		"items": []gin.H{
			{"product_id": product.ID, "quantity": 8},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Total.Equal(mustDec("20.00")), "total = %s", got.Total)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)

	updated, _ := store.CustomerForUpdate(context.Background(), testUserID, customer.ID)
	assert.True(t, updated.Debt.Equal(mustDec("10.00")), "debt = %s", updated.Debt)
}

func TestCreateOrderEndpointInsufficientStock(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: testUserID, Name: "Maria"})
	product := store.AddProduct(models.Product{UserID: testUserID, Name: "Sugar 1kg", SalePrice: mustDec("2.50"), Stock: 3})
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": customer.ID,
		"items":       []gin.H{{"product_id": product.ID, "quantity": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "in stock")
	assert.Empty(t, store.Orders())
}

func TestCreateOrderEndpointUnknownCustomer(t *testing.T) {
	store := ledger.NewMemStore()
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": 42,
		"items":       []gin.H{{"product_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterPaymentEndpoint(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: testUserID, Name: "Maria", Debt: mustDec("45.50")})
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/payments", gin.H{
		"customer_id": customer.ID,
		"amount":      "20.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.DebtBefore.Equal(mustDec("45.50")))
	assert.True(t, got.DebtAfter.Equal(mustDec("25.50")))
	assert.Equal(t, "CASH", got.Reference)
}

func TestRegisterPaymentEndpointOverpay(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: testUserID, Name: "Maria", Debt: mustDec("50.00")})
	r := testRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/payments", gin.H{
		"customer_id": customer.ID,
		"amount":      "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds current debt")
}
