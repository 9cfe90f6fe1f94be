package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// LedgerStore keeps movements in process memory. It is used by tests and by
// local runs without MongoDB.
type LedgerStore struct {
	mu        sync.RWMutex
	movements []models.Movement
	now       func() time.Time
}

// NewLedgerStore returns an empty ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{now: time.Now}
}

func (s *LedgerStore) AppendMovement(_ context.Context, movement models.Movement) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}
	if movement.Timestamp.IsZero() {
		movement.Timestamp = s.now().UTC()
	}

	s.movements = append(s.movements, movement)
	return movement, nil
}

func (s *LedgerStore) BalanceOf(_ context.Context, productID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance int64
	for _, m := range s.movements {
		if m.ProductID == productID {
			balance += m.Signed()
		}
	}
	return balance, nil
}

// LatestMovement breaks timestamp ties by insertion order.
func (s *LedgerStore) LatestMovement(_ context.Context, productID int64) (*models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Movement
	for i := range s.movements {
		m := s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if latest == nil || !m.Timestamp.Before(latest.Timestamp) {
			latest = &m
		}
	}
	return latest, nil
}

func (s *LedgerStore) ListMovements(_ context.Context, productID int64, limit int) ([]models.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Movement, 0)
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ProductID == productID {
			out = append(out, s.movements[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *LedgerStore) Balances(_ context.Context) ([]models.ProductBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[int64]int64)
	for _, m := range s.movements {
		totals[m.ProductID] += m.Signed()
	}

	out := make([]models.ProductBalance, 0, len(totals))
	for id, balance := range totals {
		out = append(out, models.ProductBalance{ProductID: id, Balance: balance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// Count returns the number of stored movements for a product.
func (s *LedgerStore) Count(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n
}
