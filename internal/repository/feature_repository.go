package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoFeatureRepository struct {
	collection *mongo.Collection
}

func NewFeatureRepository(db *mongo.Database) FeatureRepository {
	return &mongoFeatureRepository{collection: db.Collection(featuresCollection)}
}

func (m mongoFeatureRepository) Create(ctx context.Context, f *domain.FeatureImage) error {
	f.ID = primitive.NewObjectID().Hex()
	f.CreatedAt = time.Now()
	if _, err := m.collection.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert feature image: %w", err)
	}
	return nil
}

func (m mongoFeatureRepository) List(ctx context.Context) ([]*domain.FeatureImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature images: %w", err)
	}
	defer cursor.Close(ctx)

	features := make([]*domain.FeatureImage, 0)
	if err := cursor.All(ctx, &features); err != nil {
		return nil, fmt.Errorf("failed to decode feature images: %w", err)
	}
	return features, nil
}

func (m mongoFeatureRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feature image: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrFeatureNotFound
	}
	return nil
}
