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

type RestaurantStore struct {
	collection *mongo.Collection
}

func NewRestaurantStore(db *mongo.Database) *RestaurantStore {
	return &RestaurantStore{collection: db.Collection(restaurantCollectionName)}
}

func (s *RestaurantStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
		return nil, wrapFindErr("restaurant", err)
	}
	return &restaurant, nil
}

// FindManaged returns the restaurant only when userID is one of its members.
func (s *RestaurantStore) FindManaged(ctx context.Context, restaurantID, userID primitive.ObjectID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	filter := bson.M{
		"_id":     restaurantID,
		"members": bson.M{"$elemMatch": bson.M{"$eq": userID}},
	}
	if err := s.collection.FindOne(ctx, filter).Decode(&restaurant); err != nil {
		return nil, wrapFindErr("restaurant", err)
	}
	return &restaurant, nil
}

func (s *RestaurantStore) FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Restaurant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return s.find(ctx, bson.M{"tenantId": tenantID}, opts)
}

// FindByIDs fetches every listed restaurant; missing ids are simply absent
// from the result.
func (s *RestaurantStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Restaurant, error) {
	if len(ids) == 0 {
		return []models.Restaurant{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// AddMenuItem appends item to the restaurant's menu, assigning its id.
func (s *RestaurantStore) AddMenuItem(ctx context.Context, restaurantID primitive.ObjectID, item *models.MenuItem) error {
	item.ID = primitive.NewObjectID()
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "menu", Value: item}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": restaurantID}, update)
	if err != nil {
		return fmt.Errorf("failed to add menu item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMenuItem applies patch to one menu item and returns the updated
// restaurant.
func (s *RestaurantStore) UpdateMenuItem(ctx context.Context, restaurantID, itemID primitive.ObjectID, patch models.MenuItemPatch) (*models.Restaurant, error) {
	var updateObj bson.D
	if patch.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "menu.$.name", Value: *patch.Name})
	}
	if patch.Description != nil {
		updateObj = append(updateObj, bson.E{Key: "menu.$.description", Value: *patch.Description})
	}
	if patch.Price != nil {
		updateObj = append(updateObj, bson.E{Key: "menu.$.price", Value: *patch.Price})
	}
	if patch.Available != nil {
		updateObj = append(updateObj, bson.E{Key: "menu.$.available", Value: *patch.Available})
	}
	updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now().UTC()})

	filter := bson.M{"_id": restaurantID, "menu._id": itemID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var restaurant models.Restaurant
	err := s.collection.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: updateObj}}, opts).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return &restaurant, nil
}

func (s *RestaurantStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Restaurant, error) {
	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	restaurants := []models.Restaurant{}
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, fmt.Errorf("failed to decode restaurants: %w", err)
	}
	return restaurants, nil
}
