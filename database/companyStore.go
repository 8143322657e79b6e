package database

import (
	"context"
	"fmt"

	"go-food-ordering/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CompanyStore struct {
	collection *mongo.Collection
}

func NewCompanyStore(db *mongo.Database) *CompanyStore {
	return &CompanyStore{collection: db.Collection(companyCollectionName)}
}

// FindManaged returns the company only when userID is one of its members.
func (s *CompanyStore) FindManaged(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	filter := bson.M{
		"_id":     companyID,
		"members": bson.M{"$elemMatch": bson.M{"$eq": userID}},
	}
	if err := s.collection.FindOne(ctx, filter).Decode(&company); err != nil {
		return nil, wrapFindErr("company", err)
	}
	return &company, nil
}

// FindForMember lists the companies userID belongs to, sorted by name.
func (s *CompanyStore) FindForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer cursor.Close(ctx)

	companies := []models.Company{}
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// FindAll lists every company with only the fields the public company picker
// shows.
func (s *CompanyStore) FindAll(ctx context.Context) ([]models.Company, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "logo", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer cursor.Close(ctx)

	companies := []models.Company{}
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}
