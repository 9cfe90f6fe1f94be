package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/catalog"
)

// CatalogService is the product catalog behaviour exposed over HTTP.
type CatalogService interface {
	Create(ctx context.Context, body models.ProductBody) (models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
	List(ctx context.Context, query models.ProductListQuery) (models.ProductPage, error)
	Update(ctx context.Context, id int64, body models.ProductBody) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

var errInvalidID = errors.New("product id must be a positive integer")

// ProductHandler serves the catalog API.
type ProductHandler struct {
	svc    CatalogService
	logger *zap.Logger
}

func NewProductHandler(svc CatalogService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var body models.ProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: malformed body", catalog.ErrInvalidProduct))
		return
	}

	product, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "product created", product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, errInvalidID)
		return
	}

	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product found", product)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: page must be a number", catalog.ErrInvalidQuery))
		return
	}
	size, err := queryInt(c, "size", catalog.DefaultPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: size must be a number", catalog.ErrInvalidQuery))
		return
	}

	result, err := h.svc.List(c.Request.Context(), models.ProductListQuery{
		Page:          page,
		Size:          size,
		SortBy:        c.DefaultQuery("sortBy", "id"),
		SortDirection: c.DefaultQuery("sortDirection", "asc"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "products", result)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, errInvalidID)
		return
	}

	var body models.ProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: malformed body", catalog.ErrInvalidProduct))
		return
	}

	product, err := h.svc.Update(c.Request.Context(), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product updated", product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondError(c, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "product deleted", nil)
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidProduct), errors.Is(err, catalog.ErrInvalidQuery):
		respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(c, http.StatusNotFound, err)
	default:
		h.logger.Error("catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, errors.New("internal error"))
	}
}
