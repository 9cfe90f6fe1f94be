package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/inventory"
)

// InventoryService is the ledger behaviour exposed over HTTP.
type InventoryService interface {
	Deposit(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error)
	Withdraw(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error)
	Detail(ctx context.Context, productID int64) (models.InventoryDetail, error)
	Movements(ctx context.Context, productID int64, limit int) ([]models.Movement, error)
}

// InventoryHandler adapts InventoryService to gin.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// Detail returns the available quantity and unit price of a product.
func (h *InventoryHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "productId")
	if !ok {
		respondError(c, http.StatusBadRequest, inventory.ErrMissingProductID)
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "inventory detail", detail)
}

// Deposit adds stock.
func (h *InventoryHandler) Deposit(c *gin.Context) {
	h.move(c, h.svc.Deposit, "deposit recorded")
}

// Withdraw removes stock.
func (h *InventoryHandler) Withdraw(c *gin.Context) {
	h.move(c, h.svc.Withdraw, "withdrawal recorded")
}

// Movements lists the most recent movements of a product.
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := parseID(c, "productId")
	if !ok {
		respondError(c, http.StatusBadRequest, inventory.ErrMissingProductID)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: limit must be a number", inventory.ErrInvalidInput))
		return
	}

	movements, err := h.svc.Movements(c.Request.Context(), id, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "movements", movements)
}

type movementFunc func(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error)

func (h *InventoryHandler) move(c *gin.Context, apply movementFunc, message string) {
	id, ok := parseID(c, "productId")
	if !ok {
		respondError(c, http.StatusBadRequest, inventory.ErrMissingProductID)
		return
	}

	var body models.MovementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid movement payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: malformed body", inventory.ErrInvalidInput))
		return
	}

	result, err := apply(c.Request.Context(), models.MovementRequest{
		ProductID: id,
		Quantity:  body.Quantity,
		UnitPrice: body.UnitPrice,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, message, result)
}

func (h *InventoryHandler) fail(c *gin.Context, err error) {
	status := inventoryStatus(err)
	switch {
	case status == http.StatusInternalServerError:
		h.logger.Error("inventory request failed", zap.String("path", c.FullPath()), zap.Error(err))
		err = errors.New("internal error")
	case status > http.StatusInternalServerError:
		h.logger.Error("inventory request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	respondError(c, status, err)
}

func inventoryStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrInvalidInput), errors.Is(err, inventory.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrProductAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, inventory.ErrDirectoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
