package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(productsCollection),
	}
}

func (m mongoProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (m mongoProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"category":    p.Category,
		"brand":       p.Brand,
		"price":       p.Price,
		"sale_price":  p.SalePrice,
		"total_stock": p.TotalStock,
		"sizes":       p.Sizes,
		"unit":        p.Unit,
		"images":      p.Images,
		"updated_at":  p.UpdatedAt,
	}}

	result, err := m.collection.UpdateByID(ctx, p.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m mongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// GetByIDs returns the products that still exist, keyed by id.
func (m mongoProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	products, err := m.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (m mongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := bson.M{}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if len(filter.Brands) > 0 {
		query["brand"] = bson.M{"$in": filter.Brands}
	}

	return m.find(ctx, query, options.Find().SetSort(sortFor(filter.SortBy)))
}

func (m mongoProductRepository) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	query := bson.M{"$or": bson.A{
		bson.M{"title": rx},
		bson.M{"description": rx},
		bson.M{"category": rx},
		bson.M{"brand": rx},
	}}
	return m.find(ctx, query)
}

func (m mongoProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	filter := bson.M{
		"_id":         id,
		"total_stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"total_stock": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStockConflict
	}
	return nil
}

func (m mongoProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	update := bson.M{
		"$inc": bson.M{"total_stock": quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m mongoProductRepository) SwapSizes(ctx context.Context, id, from, to string) error {
	filter := bson.M{"_id": id, "sizes": from}
	update := bson.M{"$set": bson.M{"sizes": to, "updated_at": time.Now()}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update sizes: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStockConflict
	}
	return nil
}

func (m mongoProductRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Product, error) {
	cursor, err := m.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*domain.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func sortFor(sortBy string) bson.D {
	switch sortBy {
	case SortPriceHighToLow:
		return bson.D{{Key: "price", Value: -1}}
	case SortTitleAToZ:
		return bson.D{{Key: "title", Value: 1}}
	case SortTitleZToA:
		return bson.D{{Key: "title", Value: -1}}
	default:
		return bson.D{{Key: "price", Value: 1}}
	}
}
