package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/config"
)

const (
	movementsCollection = "movements"
	productsCollection  = "products"
	countersCollection  = "counters"
	snapshotsCollection = "stock_snapshots"
)

// Store owns the MongoDB connection shared by the repositories of one binary.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens and verifies a MongoDB connection.
func Connect(ctx context.Context, cfg config.MongoDBConfig) (*Store, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.DBName)}, nil
}

// Database returns the configured database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
