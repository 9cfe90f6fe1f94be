package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

const timeLayout = "2006-01-02 15:04"

// Service builds stock snapshots from the ledger.
type Service struct {
	ledger    repository.LedgerStore
	snapshots repository.SnapshotStore
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(ledger repository.LedgerStore, snapshots repository.SnapshotStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger, snapshots: snapshots, now: time.Now, logger: logger}
}

// Snapshot records every product balance as of at and returns the stored
// snapshot with a short text summary.
func (s *Service) Snapshot(ctx context.Context, at time.Time) (models.StockSnapshot, string, error) {
	balances, err := s.ledger.Balances(ctx)
	if err != nil {
		return models.StockSnapshot{}, "", fmt.Errorf("load balances: %w", err)
	}

	snapshot := models.StockSnapshot{
		TakenAt:   at.UTC(),
		Products:  balances,
		CreatedAt: s.now().UTC(),
	}
	for _, b := range balances {
		snapshot.TotalUnits += b.Balance
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return models.StockSnapshot{}, "", fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("stock snapshot saved",
		zap.Time("taken_at", snapshot.TakenAt),
		zap.Int("products", len(balances)),
		zap.Int64("total_units", snapshot.TotalUnits))

	return snapshot, summarize(snapshot, at), nil
}

func summarize(snapshot models.StockSnapshot, at time.Time) string {
	if len(snapshot.Products) == 0 {
		return fmt.Sprintf("Stock snapshot (%s): no movements recorded yet.", at.Format(timeLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock snapshot (%s): %d units across %d products.",
		at.Format(timeLayout), snapshot.TotalUnits, len(snapshot.Products))

	var empty []string
	for _, p := range snapshot.Products {
		fmt.Fprintf(&b, "\n- product %d: %d", p.ProductID, p.Balance)
		if p.Balance == 0 {
			empty = append(empty, fmt.Sprint(p.ProductID))
		}
	}
	if len(empty) > 0 {
		fmt.Fprintf(&b, "\nOut of stock: %s.", strings.Join(empty, ", "))
	}
	return b.String()
}
