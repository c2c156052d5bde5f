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

type mongoAddressRepository struct {
	collection *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) AddressRepository {
	return &mongoAddressRepository{collection: db.Collection(addressesCollection)}
}

func (m mongoAddressRepository) Create(ctx context.Context, a *domain.Address) error {
	now := time.Now()
	a.ID = primitive.NewObjectID().Hex()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (m mongoAddressRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer cursor.Close(ctx)

	addresses := make([]*domain.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addresses, nil
}

// Update only touches the address when it belongs to a.UserID.
func (m mongoAddressRepository) Update(ctx context.Context, a *domain.Address) error {
	a.UpdatedAt = time.Now()
	filter := bson.M{"_id": a.ID, "user_id": a.UserID}
	update := bson.M{"$set": bson.M{
		"address":    a.Address,
		"city":       a.City,
		"pincode":    a.Pincode,
		"phone":      a.Phone,
		"notes":      a.Notes,
		"updated_at": a.UpdatedAt,
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m mongoAddressRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}
