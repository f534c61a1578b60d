package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
)

const productsCollection = "products"

// ProductRepositoryMongo implements domain.ProductRepository on MongoDB.
type ProductRepositoryMongo struct {
	coll *mongo.Collection
}

// NewProductRepository creates a product repository backed by MongoDB.
func NewProductRepository(db *mongo.Database) *ProductRepositoryMongo {
	return &ProductRepositoryMongo{coll: db.Collection(productsCollection)}
}

// ListActive returns active catalog entries in insertion order.
func (r *ProductRepositoryMongo) ListActive(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrPersistence, err)
	}
	defer cur.Close(ctx)

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("%w: decode products: %v", domain.ErrPersistence, err)
	}
	return products, nil
}

// ReplaceAll truncates the catalog and inserts the given products.
func (r *ProductRepositoryMongo) ReplaceAll(ctx context.Context, products []domain.Product) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: clear products: %v", domain.ErrPersistence, err)
	}
	if len(products) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert products: %v", domain.ErrPersistence, err)
	}
	return nil
}
