package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is a tenant. Every restaurant and order belongs to exactly one.
type Company struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"name" json:"name" validate:"required"`
	Logo      string               `bson:"logo,omitempty" json:"logo,omitempty"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (c *Company) HasMember(userID primitive.ObjectID) bool {
	return containsID(c.Members, userID)
}
