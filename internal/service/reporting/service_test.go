package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
)

func TestSnapshotSavesBalances(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedgerStore()
	snapshots := memory.NewSnapshotStore()

	add := func(productID, qty int64, kind models.MovementKind) {
		_, err := ledger.AppendMovement(ctx, models.Movement{ProductID: productID, Quantity: qty, Kind: kind, UnitPrice: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}
	add(2, 10, models.MovementDeposit)
	add(2, 4, models.MovementWithdrawal)
	add(5, 3, models.MovementDeposit)
	add(5, 3, models.MovementWithdrawal)

	at := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	snapshot, summary, err := NewService(ledger, snapshots, nil).Snapshot(ctx, at)
	require.NoError(t, err)

	assert.Equal(t, int64(6), snapshot.TotalUnits)
	assert.Equal(t, []models.ProductBalance{{ProductID: 2, Balance: 6}, {ProductID: 5, Balance: 0}}, snapshot.Products)
	assert.Equal(t, at, snapshot.TakenAt)

	saved := snapshots.Snapshots()
	require.Len(t, saved, 1)
	assert.Equal(t, snapshot, saved[0])

	assert.Contains(t, summary, "Stock snapshot (2026-04-10 20:00): 6 units across 2 products.")
	assert.Contains(t, summary, "- product 2: 6")
	assert.Contains(t, summary, "Out of stock: 5.")
}

func TestSnapshotWithEmptyLedger(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	_, summary, err := NewService(memory.NewLedgerStore(), snapshots, nil).Snapshot(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Contains(t, summary, "no movements recorded yet")
	assert.Len(t, snapshots.Snapshots(), 1)
}
