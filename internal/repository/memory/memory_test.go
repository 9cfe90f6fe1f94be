package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

func movement(productID, qty int64, kind models.MovementKind, price string, at time.Time) models.Movement {
	unit := decimal.RequireFromString(price)
	return models.Movement{
		ProductID:  productID,
		Quantity:   qty,
		Kind:       kind,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(qty)),
		Timestamp:  at,
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := NewLedgerStore()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	stored, err := store.AppendMovement(context.Background(), movement(1, 3, models.MovementDeposit, "10", time.Time{}))
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, fixed, stored.Timestamp)
}

func TestAppendKeepsProvidedTimestamp(t *testing.T) {
	store := NewLedgerStore()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	stored, err := store.AppendMovement(context.Background(), movement(1, 3, models.MovementDeposit, "10", at))
	require.NoError(t, err)
	assert.Equal(t, at, stored.Timestamp)
}

func TestBalanceOf(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	now := time.Now()

	balance, err := store.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, balance)

	_, _ = store.AppendMovement(ctx, movement(1, 10, models.MovementDeposit, "5", now))
	_, _ = store.AppendMovement(ctx, movement(1, 4, models.MovementWithdrawal, "5", now))
	_, _ = store.AppendMovement(ctx, movement(2, 7, models.MovementDeposit, "5", now))

	balance, err = store.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)
	assert.Equal(t, 2, store.Count(1))
}

func TestLatestMovement(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	latest, err := store.LatestMovement(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, _ = store.AppendMovement(ctx, movement(1, 1, models.MovementDeposit, "100", base.Add(time.Hour)))
	_, _ = store.AppendMovement(ctx, movement(1, 1, models.MovementDeposit, "200", base))
	_, _ = store.AppendMovement(ctx, movement(1, 1, models.MovementDeposit, "300", base.Add(time.Hour)))

	latest, err = store.LatestMovement(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.UnitPrice.Equal(decimal.NewFromInt(300)))
}

func TestListMovementsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, _ = store.AppendMovement(ctx, movement(1, int64(i+1), models.MovementDeposit, "1", base.Add(time.Duration(i)*time.Minute)))
	}

	all, err := store.ListMovements(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, int64(5), all[0].Quantity)
	assert.Equal(t, int64(1), all[4].Quantity)

	limited, err := store.ListMovements(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := store.ListMovements(ctx, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBalances(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	now := time.Now()

	_, _ = store.AppendMovement(ctx, movement(3, 2, models.MovementDeposit, "1", now))
	_, _ = store.AppendMovement(ctx, movement(1, 5, models.MovementDeposit, "1", now))
	_, _ = store.AppendMovement(ctx, movement(1, 1, models.MovementWithdrawal, "1", now))

	balances, err := store.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ProductBalance{{ProductID: 1, Balance: 4}, {ProductID: 3, Balance: 2}}, balances)
}

func TestProductStore(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	for _, p := range []struct {
		name  string
		price string
	}{{"Maize", "30"}, {"Eggs", "10"}, {"Feed", "20"}} {
		_, err := store.Create(ctx, models.Product{Name: p.name, Price: decimal.RequireFromString(p.price)})
		require.NoError(t, err)
	}

	got, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Eggs", got.Name)

	items, total, err := store.List(ctx, models.ProductListQuery{Page: 0, Size: 2, SortBy: "price", SortDirection: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Maize", items[0].Name)
	assert.Equal(t, "Feed", items[1].Name)

	items, _, err = store.List(ctx, models.ProductListQuery{Page: 5, Size: 2, SortBy: "id"})
	require.NoError(t, err)
	assert.Empty(t, items)

	got.Name = "Brown eggs"
	_, err = store.Update(ctx, got)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, 2))
	_, err = store.Get(ctx, 2)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 2), repository.ErrNotFound)
	_, err = store.Update(ctx, models.Product{ID: 42})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
