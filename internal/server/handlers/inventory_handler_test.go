package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/inventory"
)

type mockInventory struct{ mock.Mock }

func (m *mockInventory) Deposit(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.BalanceResult), args.Error(1)
}

func (m *mockInventory) Withdraw(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.BalanceResult), args.Error(1)
}

func (m *mockInventory) Detail(ctx context.Context, productID int64) (models.InventoryDetail, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(models.InventoryDetail), args.Error(1)
}

func (m *mockInventory) Movements(ctx context.Context, productID int64, limit int) ([]models.Movement, error) {
	args := m.Called(ctx, productID, limit)
	movements, _ := args.Get(0).([]models.Movement)
	return movements, args.Error(1)
}

func inventoryEngine(svc InventoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInventoryHandler(svc, nil)
	r := gin.New()
	r.GET("/products/:productId", h.Detail)
	r.GET("/products/:productId/movements", h.Movements)
	r.POST("/products/:productId/deposit", h.Deposit)
	r.POST("/products/:productId/withdrawal", h.Withdraw)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestDepositHandler(t *testing.T) {
	svc := new(mockInventory)
	svc.On("Deposit", mock.Anything, mock.MatchedBy(func(req models.MovementRequest) bool {
		return req.ProductID == 7 && *req.Quantity == 3 && req.UnitPrice.Equal(decimal.NewFromInt(1000))
	})).Return(models.BalanceResult{ProductID: 7, NewBalance: 8}, nil)

	w := do(inventoryEngine(svc), http.MethodPost, "/products/7/deposit", `{"quantity":3,"unitPrice":1000}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(7), data["productId"])
	assert.Equal(t, float64(8), data["newBalance"])
}

func TestWithdrawHandlerPassesMissingFields(t *testing.T) {
	svc := new(mockInventory)
	svc.On("Withdraw", mock.Anything, mock.MatchedBy(func(req models.MovementRequest) bool {
		return req.Quantity == nil && req.UnitPrice == nil
	})).Return(models.BalanceResult{}, inventory.ErrInvalidQuantity)

	w := do(inventoryEngine(svc), http.MethodPost, "/products/7/withdrawal", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMovementHandlerRejectsBadInput(t *testing.T) {
	svc := new(mockInventory)
	r := inventoryEngine(svc)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/products/abc/deposit", `{"quantity":1,"unitPrice":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/products/0/deposit", `{"quantity":1,"unitPrice":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/products/1/deposit", `{"quantity":1.5}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/products/1/deposit", `not json`).Code)
	svc.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything)
}

func TestInventoryErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: inventory.ErrInvalidPrice, status: http.StatusBadRequest},
		{err: fmt.Errorf("%w: product 1 has 5", inventory.ErrInsufficientBalance), status: http.StatusBadRequest},
		{err: fmt.Errorf("%w: id 1", inventory.ErrProductNotFound), status: http.StatusNotFound},
		{err: fmt.Errorf("%w: id 1", inventory.ErrProductAccessDenied), status: http.StatusForbidden},
		{err: fmt.Errorf("%w: timeout", inventory.ErrDirectoryUnavailable), status: http.StatusServiceUnavailable},
		{err: fmt.Errorf("%w: disk", inventory.ErrStorageFailure), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			svc := new(mockInventory)
			svc.On("Detail", mock.Anything, int64(1)).Return(models.InventoryDetail{}, tt.err)

			w := do(inventoryEngine(svc), http.MethodGet, "/products/1", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, float64(tt.status), decode(t, w)["code"])
		})
	}
}

func TestStorageFailureMessageIsHidden(t *testing.T) {
	svc := new(mockInventory)
	svc.On("Detail", mock.Anything, int64(1)).Return(models.InventoryDetail{}, errors.New("connection refused 10.0.0.3"))

	w := do(inventoryEngine(svc), http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestDetailHandler(t *testing.T) {
	svc := new(mockInventory)
	svc.On("Detail", mock.Anything, int64(3)).Return(models.InventoryDetail{
		ProductID:         3,
		Name:              "Maize",
		AvailableQuantity: 12,
		UnitPrice:         decimal.NewNullDecimal(decimal.NewFromInt(40)),
	}, nil)

	w := do(inventoryEngine(svc), http.MethodGet, "/products/3", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Maize", data["name"])
	assert.Equal(t, float64(12), data["availableQuantity"])
	assert.Equal(t, "40", data["unitPrice"])
}

func TestMovementsHandler(t *testing.T) {
	svc := new(mockInventory)
	svc.On("Movements", mock.Anything, int64(3), 5).Return([]models.Movement{{ID: "m1", ProductID: 3}}, nil)
	r := inventoryEngine(svc)

	w := do(r, http.MethodGet, "/products/3/movements?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/products/3/movements?limit=ten", "").Code)
}
