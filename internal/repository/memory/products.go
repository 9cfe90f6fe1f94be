package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

// ProductStore is an in-memory catalog with sequential ids starting at 1.
type ProductStore struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	nextID   int64
}

// NewProductStore returns an empty catalog.
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[int64]models.Product)}
}

func (s *ProductStore) Create(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	product.ID = s.nextID
	s.products[product.ID] = product
	return product, nil
}

func (s *ProductStore) Get(_ context.Context, id int64) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return product, nil
}

func (s *ProductStore) List(_ context.Context, query models.ProductListQuery) ([]models.Product, int64, error) {
	s.mu.RLock()
	all := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	s.mu.RUnlock()

	less := productLess(query.SortBy)
	desc := strings.EqualFold(query.SortDirection, "desc")
	sort.Slice(all, func(i, j int) bool {
		if desc {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	total := int64(len(all))
	start := query.Page * query.Size
	if start >= len(all) {
		return []models.Product{}, total, nil
	}
	end := start + query.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *ProductStore) Update(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return models.Product{}, repository.ErrNotFound
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func productLess(sortBy string) func(a, b models.Product) bool {
	switch sortBy {
	case "name":
		return func(a, b models.Product) bool {
			if a.Name == b.Name {
				return a.ID < b.ID
			}
			return a.Name < b.Name
		}
	case "price":
		return func(a, b models.Product) bool {
			if a.Price.Equal(b.Price) {
				return a.ID < b.ID
			}
			return a.Price.LessThan(b.Price)
		}
	default:
		return func(a, b models.Product) bool { return a.ID < b.ID }
	}
}
