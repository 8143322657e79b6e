package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ItemID   primitive.ObjectID `bson:"itemId" json:"itemId" validate:"required"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Price    float64            `bson:"price" json:"price"`
}

// OrderRestaurant groups the items an order takes from one restaurant.
type OrderRestaurant struct {
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId" validate:"required"`
	Items        []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Restaurants []OrderRestaurant  `bson:"restaurants" json:"restaurants"`
	TotalPrice  float64            `bson:"totalPrice" json:"totalPrice"`
	Status      OrderStatus        `bson:"status" json:"status"`
	TenantID    primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RestaurantIDs lists the restaurants the order spans.
func (o *Order) RestaurantIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(o.Restaurants))
	for _, r := range o.Restaurants {
		ids = append(ids, r.RestaurantID)
	}
	return ids
}

// ItemsFor flattens the items the order takes from one restaurant.
func (o *Order) ItemsFor(restaurantID primitive.ObjectID) []OrderItem {
	items := []OrderItem{}
	for _, r := range o.Restaurants {
		if r.RestaurantID == restaurantID {
			items = append(items, r.Items...)
		}
	}
	return items
}

// ComputeTotal sums quantity times price over every item.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, r := range o.Restaurants {
		for _, item := range r.Items {
			total += float64(item.Quantity) * item.Price
		}
	}
	return total
}
