package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `bson:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
}

type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Available   bool               `bson:"available" json:"available"`
}

type Restaurant struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name" validate:"required"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	TenantID    primitive.ObjectID   `bson:"tenantId" json:"tenantId"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	Location    Location             `bson:"location" json:"location"`
	Menu        []MenuItem           `bson:"menu,omitempty" json:"menu"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (r *Restaurant) HasMember(userID primitive.ObjectID) bool {
	return containsID(r.Members, userID)
}

// MenuItem looks up an item on the restaurant's menu.
func (r *Restaurant) MenuItem(itemID primitive.ObjectID) (MenuItem, bool) {
	for _, item := range r.Menu {
		if item.ID == itemID {
			return item, true
		}
	}
	return MenuItem{}, false
}

// MenuItemPatch lists the menu item fields to change. Nil fields are kept.
type MenuItemPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Available   *bool    `json:"available"`
}

func (p MenuItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Available == nil
}
