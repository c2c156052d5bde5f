package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection(ordersCollection),
	}
}

// NewOrderID reserves an id before the order is persisted, so it can be
// handed to the payment gateway as the receipt.
func NewOrderID() string {
	return primitive.NewObjectID().Hex()
}

func (m mongoOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	now := time.Now()
	if o.ID == "" {
		o.ID = NewOrderID()
	}
	o.OrderDate = now
	o.OrderUpdateDate = now

	if _, err := m.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m mongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return &order, nil
}

func (m mongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return m.find(ctx, bson.M{"user_id": userID})
}

func (m mongoOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return m.find(ctx, bson.M{})
}

// MarkPaid moves an unpaid order to confirmed/paid. Paid orders are left alone.
func (m mongoOrderRepository) MarkPaid(ctx context.Context, id, paymentID, payerID string) error {
	filter := bson.M{
		"_id":            id,
		"payment_status": domain.PaymentStatusUnpaid,
	}
	update := bson.M{"$set": bson.M{
		"payment_status":    domain.PaymentStatusPaid,
		"order_status":      domain.OrderStatusConfirmed,
		"payment_id":        paymentID,
		"payer_id":          payerID,
		"order_update_date": time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotPending
	}
	return nil
}

func (m mongoOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	update := bson.M{"$set": bson.M{
		"order_status":      status,
		"order_update_date": time.Now(),
	}}

	result, err := m.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m mongoOrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
