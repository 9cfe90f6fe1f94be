package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// LedgerStore is the append-only movement ledger. Balances are always derived
// from the stored movements, never cached.
type LedgerStore interface {
	// AppendMovement assigns an id and timestamp when absent, persists the
	// movement and returns the stored value.
	AppendMovement(ctx context.Context, movement models.Movement) (models.Movement, error)
	// BalanceOf returns the signed sum of quantities for the product, 0 when it has no movements.
	BalanceOf(ctx context.Context, productID int64) (int64, error)
	// LatestMovement returns the movement with the greatest timestamp, or nil.
	LatestMovement(ctx context.Context, productID int64) (*models.Movement, error)
	// ListMovements returns up to limit movements, most recent first.
	ListMovements(ctx context.Context, productID int64, limit int) ([]models.Movement, error)
	// Balances returns the balance of every product that has movements, ordered by product id.
	Balances(ctx context.Context) ([]models.ProductBalance, error)
}

// ProductStore persists catalog products.
type ProductStore interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
	List(ctx context.Context, query models.ProductListQuery) ([]models.Product, int64, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// SnapshotStore persists stock snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.StockSnapshot) error
}
