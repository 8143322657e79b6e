package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-food-ordering/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusChanged is returned when an order's status moved on between the
// read and the conditional update.
var ErrStatusChanged = errors.New("order status changed concurrently")

type OrderStore struct {
	collection *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{collection: db.Collection(orderCollectionName)}
}

// Create inserts the order, filling in the id and timestamps.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, wrapFindErr("order", err)
	}
	return &order, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *OrderStore) FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"tenantId": tenantID})
}

// FindByRestaurant lists the orders holding at least one line from the
// restaurant.
func (s *OrderStore) FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error) {
	filter := bson.M{
		"restaurants": bson.M{"$elemMatch": bson.M{"restaurantId": restaurantID}},
	}
	return s.find(ctx, filter)
}

// UpdateStatus moves the order from one status to the next. The update only
// applies while the stored status still equals from.
func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: to},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
