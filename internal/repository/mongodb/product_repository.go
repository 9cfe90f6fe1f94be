package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

type productDocument struct {
	ID          int64                `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Active      bool                 `bson:"active"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

// ProductRepository stores catalog products. Ids come from the counters collection.
type ProductRepository struct {
	products *mongo.Collection
	counters *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		products: db.Collection(productsCollection),
		counters: db.Collection(countersCollection),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product models.Product) (models.Product, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = id

	doc, err := toProductDocument(product)
	if err != nil {
		return models.Product{}, err
	}
	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return fromProductDocument(doc)
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (models.Product, error) {
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return fromProductDocument(doc)
}

func (r *ProductRepository) List(ctx context.Context, query models.ProductListQuery) ([]models.Product, int64, error) {
	total, err := r.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(productSort(query)).
		SetSkip(int64(query.Page * query.Size)).
		SetLimit(int64(query.Size))

	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	items := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := fromProductDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, product models.Product) (models.Product, error) {
	doc, err := toProductDocument(product)
	if err != nil {
		return models.Product{}, err
	}

	res, err := r.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, doc)
	if err != nil {
		return models.Product{}, fmt.Errorf("replace product %d: %w", product.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.Product{}, repository.ErrNotFound
	}
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productsCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate product id: %w", err)
	}
	return counter.Seq, nil
}

func productSort(query models.ProductListQuery) bson.D {
	direction := 1
	if strings.EqualFold(query.SortDirection, "desc") {
		direction = -1
	}

	field := "_id"
	switch query.SortBy {
	case "name", "price":
		field = query.SortBy
	}

	sort := bson.D{{Key: field, Value: direction}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

func toProductDocument(p models.Product) (productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:   p.UpdatedAt.UTC().Truncate(time.Millisecond),
	}, nil
}

func fromProductDocument(doc productDocument) (models.Product, error) {
	price, err := fromDecimal128(doc.Price)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       price,
		Active:      doc.Active,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}, nil
}
