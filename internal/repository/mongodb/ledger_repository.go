package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

type movementDocument struct {
	ID         primitive.ObjectID   `bson:"_id"`
	ProductID  int64                `bson:"product_id"`
	Quantity   int64                `bson:"quantity"`
	Kind       string               `bson:"kind"`
	UnitPrice  primitive.Decimal128 `bson:"unit_price"`
	TotalPrice primitive.Decimal128 `bson:"total_price"`
	Timestamp  time.Time            `bson:"timestamp"`
}

// LedgerRepository stores movements in the movements collection.
type LedgerRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewLedgerRepository builds a ledger backed by the given database.
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{coll: db.Collection(movementsCollection), now: time.Now}
}

// EnsureIndexes creates the index used by balance and latest-movement lookups.
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create movements index: %w", err)
	}
	return nil
}

func (r *LedgerRepository) AppendMovement(ctx context.Context, movement models.Movement) (models.Movement, error) {
	if movement.Timestamp.IsZero() {
		movement.Timestamp = r.now()
	}
	// BSON dates keep millisecond precision only.
	movement.Timestamp = movement.Timestamp.UTC().Truncate(time.Millisecond)

	doc, err := toMovementDocument(movement)
	if err != nil {
		return models.Movement{}, err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Movement{}, fmt.Errorf("failed to insert movement: %w", err)
	}

	movement.ID = doc.ID.Hex()
	return movement, nil
}

func (r *LedgerRepository) BalanceOf(ctx context.Context, productID int64) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "product_id", Value: productID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product_id"},
			{Key: "balance", Value: signedSum()},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate balance: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []balanceRow
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Balance, nil
}

func (r *LedgerRepository) LatestMovement(ctx context.Context, productID int64) (*models.Movement, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	var doc movementDocument
	err := r.coll.FindOne(ctx, bson.M{"product_id": productID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest movement: %w", err)
	}

	movement, err := fromMovementDocument(doc)
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *LedgerRepository) ListMovements(ctx context.Context, productID int64, limit int) ([]models.Movement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movementDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	out := make([]models.Movement, 0, len(docs))
	for _, doc := range docs {
		m, err := fromMovementDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *LedgerRepository) Balances(ctx context.Context) ([]models.ProductBalance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product_id"},
			{Key: "balance", Value: signedSum()},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate balances: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []balanceRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}

	out := make([]models.ProductBalance, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ProductBalance{ProductID: row.ProductID, Balance: row.Balance})
	}
	return out, nil
}

type balanceRow struct {
	ProductID int64 `bson:"_id"`
	Balance   int64 `bson:"balance"`
}

// signedSum adds deposits and subtracts withdrawals.
func signedSum() bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$kind", string(models.MovementWithdrawal)}}},
		bson.D{{Key: "$multiply", Value: bson.A{"$quantity", -1}}},
		"$quantity",
	}}}}}
}

func toMovementDocument(m models.Movement) (movementDocument, error) {
	id := primitive.NewObjectID()
	if m.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return movementDocument{}, fmt.Errorf("invalid movement id %q: %w", m.ID, err)
		}
		id = parsed
	}

	unit, err := toDecimal128(m.UnitPrice)
	if err != nil {
		return movementDocument{}, err
	}
	total, err := toDecimal128(m.TotalPrice)
	if err != nil {
		return movementDocument{}, err
	}

	return movementDocument{
		ID:         id,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Kind:       string(m.Kind),
		UnitPrice:  unit,
		TotalPrice: total,
		Timestamp:  m.Timestamp,
	}, nil
}

func fromMovementDocument(doc movementDocument) (models.Movement, error) {
	unit, err := fromDecimal128(doc.UnitPrice)
	if err != nil {
		return models.Movement{}, err
	}
	total, err := fromDecimal128(doc.TotalPrice)
	if err != nil {
		return models.Movement{}, err
	}

	return models.Movement{
		ID:         doc.ID.Hex(),
		ProductID:  doc.ProductID,
		Quantity:   doc.Quantity,
		Kind:       models.MovementKind(doc.Kind),
		UnitPrice:  unit,
		TotalPrice: total,
		Timestamp:  doc.Timestamp.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return value, nil
}

func fromDecimal128(value primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("convert decimal128 %s: %w", value, err)
	}
	return d, nil
}
