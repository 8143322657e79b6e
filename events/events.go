// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"time"

	"go-food-ordering/models"
)

// Routing keys on the orders exchange.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message body for every order event.
type OrderEvent struct {
	Event      string             `json:"event"`
	OrderID    string             `json:"orderId"`
	TenantID   string             `json:"tenantId"`
	UserID     string             `json:"userId"`
	Status     models.OrderStatus `json:"status"`
	PrevStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalPrice float64            `json:"totalPrice"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// NewOrderEvent builds the event for order. prev is empty for creations.
func NewOrderEvent(event string, order *models.Order, prev models.OrderStatus) OrderEvent {
	return OrderEvent{
		Event:      event,
		OrderID:    order.ID.Hex(),
		TenantID:   order.TenantID.Hex(),
		UserID:     order.UserID.Hex(),
		Status:     order.Status,
		PrevStatus: prev,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers order events.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                              { return nil }
