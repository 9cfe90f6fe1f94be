package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	// ErrInvalidProduct is returned when a create or update payload is rejected.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidQuery is returned for unsupported paging or sorting options.
	ErrInvalidQuery = errors.New("invalid list query")
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
)

var sortableFields = map[string]bool{"id": true, "name": true, "price": true}

// Service implements the product catalog use cases.
type Service struct {
	store  repository.ProductStore
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store repository.ProductStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, now: time.Now, logger: logger}
}

// Create validates and stores a new product. Products are active unless the
// body says otherwise.
func (s *Service) Create(ctx context.Context, body models.ProductBody) (models.Product, error) {
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if body.Price == nil {
		return models.Product{}, fmt.Errorf("%w: price is required", ErrInvalidProduct)
	}
	if body.Price.IsNegative() {
		return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	now := s.now().UTC()
	product := models.Product{
		Name:        name,
		Description: strings.TrimSpace(body.Description),
		Price:       *body.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Active != nil {
		product.Active = *body.Active
	}

	created, err := s.store.Create(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, s.translate(id, err)
	}
	return product, nil
}

// List returns one page of products. Zero size means DefaultPageSize.
func (s *Service) List(ctx context.Context, query models.ProductListQuery) (models.ProductPage, error) {
	if query.Size == 0 {
		query.Size = DefaultPageSize
	}
	if query.SortBy == "" {
		query.SortBy = "id"
	}
	if query.SortDirection == "" {
		query.SortDirection = "asc"
	}
	query.SortDirection = strings.ToLower(query.SortDirection)

	switch {
	case query.Page < 0:
		return models.ProductPage{}, fmt.Errorf("%w: page must not be negative", ErrInvalidQuery)
	case query.Size < 1 || query.Size > MaxPageSize:
		return models.ProductPage{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidQuery, MaxPageSize)
	case !sortableFields[query.SortBy]:
		return models.ProductPage{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, query.SortBy)
	case query.SortDirection != "asc" && query.SortDirection != "desc":
		return models.ProductPage{}, fmt.Errorf("%w: sortDirection must be asc or desc", ErrInvalidQuery)
	}

	items, total, err := s.store.List(ctx, query)
	if err != nil {
		return models.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return models.ProductPage{Items: items, Total: total, Page: query.Page, Size: query.Size}, nil
}

// Update applies the non-empty fields of body to an existing product.
func (s *Service) Update(ctx context.Context, id int64, body models.ProductBody) (models.Product, error) {
	product, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, s.translate(id, err)
	}

	if name := strings.TrimSpace(body.Name); name != "" {
		product.Name = name
	}
	if body.Description != "" {
		product.Description = strings.TrimSpace(body.Description)
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
		}
		product.Price = *body.Price
	}
	if body.Active != nil {
		product.Active = *body.Active
	}
	product.UpdatedAt = s.now().UTC()

	updated, err := s.store.Update(ctx, product)
	if err != nil {
		return models.Product{}, s.translate(id, err)
	}

	s.logger.Info("product updated", zap.Int64("product_id", id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(id, err)
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) translate(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return fmt.Errorf("product %d: %w", id, err)
}
