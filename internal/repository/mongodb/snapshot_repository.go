package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// SnapshotRepository implements repository.SnapshotStore.
type SnapshotRepository struct {
	coll *mongo.Collection
}

func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{coll: db.Collection(snapshotsCollection)}
}

// SaveSnapshot saves a stock snapshot to the database.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.StockSnapshot) error {
	if _, err := r.coll.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert stock snapshot: %w", err)
	}
	return nil
}
