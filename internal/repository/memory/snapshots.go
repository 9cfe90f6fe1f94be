package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// SnapshotStore records saved snapshots in memory.
type SnapshotStore struct {
	mu        sync.Mutex
	snapshots []models.StockSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) SaveSnapshot(_ context.Context, snapshot models.StockSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Snapshots returns a copy of everything saved so far.
func (s *SnapshotStore) Snapshots() []models.StockSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.StockSnapshot(nil), s.snapshots...)
}
