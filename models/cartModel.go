package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartLine struct {
	RestaurantID primitive.ObjectID `json:"restaurantId"`
	ItemID       primitive.ObjectID `json:"itemId"`
	Name         string             `json:"name"`
	Quantity     int                `json:"quantity"`
	Price        float64            `json:"price"`
}

// Cart is a user's pending selection within one tenant.
type Cart struct {
	UserID    primitive.ObjectID `json:"userId"`
	TenantID  primitive.ObjectID `json:"tenantId"`
	Lines     []CartLine         `json:"lines"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// SetLine replaces the quantity of an item, adding or removing the line as
// needed.
func (c *Cart) SetLine(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].RestaurantID == line.RestaurantID && c.Lines[i].ItemID == line.ItemID {
			if line.Quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				return
			}
			c.Lines[i] = line
			return
		}
	}
	if line.Quantity > 0 {
		c.Lines = append(c.Lines, line)
	}
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += float64(l.Quantity) * l.Price
	}
	return total
}

// Restaurants groups the cart lines into order restaurants, keeping the order
// in which restaurants were first added.
func (c *Cart) Restaurants() []OrderRestaurant {
	var out []OrderRestaurant
	index := map[primitive.ObjectID]int{}
	for _, l := range c.Lines {
		i, ok := index[l.RestaurantID]
		if !ok {
			i = len(out)
			index[l.RestaurantID] = i
			out = append(out, OrderRestaurant{RestaurantID: l.RestaurantID})
		}
		out[i].Items = append(out[i].Items, OrderItem{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	return out
}
