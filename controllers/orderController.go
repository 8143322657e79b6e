package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-food-ordering/database"
	"go-food-ordering/events"
	"go-food-ordering/logger"
	"go-food-ordering/metrics"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// userLookupConcurrency bounds the parallel customer lookups of one listing.
const userLookupConcurrency = 8

type OrderController struct {
	access
	orders    OrderStore
	carts     CartStore
	publisher events.Publisher
	notifier  Notifier
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewOrderController(deps Dependencies) *OrderController {
	return &OrderController{
		access: access{
			users:       deps.Users,
			companies:   deps.Companies,
			restaurants: deps.Restaurants,
		},
		orders:    deps.Orders,
		carts:     deps.Carts,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		log:       deps.Log,
	}
}

// RestaurantOrder is an order seen from one restaurant: only that
// restaurant's items are kept.
type RestaurantOrder struct {
	ID         primitive.ObjectID `json:"_id"`
	UserID     primitive.ObjectID `json:"userId"`
	Items      []models.OrderItem `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
	Status     models.OrderStatus `json:"status"`
	TenantID   primitive.ObjectID `json:"tenantId"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// CompanyOrder is an order with its customer resolved.
type CompanyOrder struct {
	ID          primitive.ObjectID       `json:"_id"`
	User        models.TruncatedUser     `json:"user"`
	UserID      primitive.ObjectID       `json:"userId"`
	Restaurants []models.OrderRestaurant `json:"restaurants"`
	TotalPrice  float64                  `json:"totalPrice"`
	Status      models.OrderStatus       `json:"status"`
	TenantID    primitive.ObjectID       `json:"tenantId"`
	CreatedAt   time.Time                `json:"createdAt"`
}

// FilterRestaurantOrders projects every order onto restaurantID.
func FilterRestaurantOrders(orders []models.Order, restaurantID primitive.ObjectID) []RestaurantOrder {
	filtered := make([]RestaurantOrder, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		filtered = append(filtered, RestaurantOrder{
			ID:         order.ID,
			UserID:     order.UserID,
			Items:      order.ItemsFor(restaurantID),
			TotalPrice: order.TotalPrice,
			Status:     order.Status,
			TenantID:   order.TenantID,
			CreatedAt:  order.CreatedAt,
		})
	}
	return filtered
}

func (oc *OrderController) GetRestaurantOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := objectIDParam(c, "restaurantId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Restaurant ID is required")
			return
		}
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := oc.restaurants.FindManaged(ctx, restaurantID, userID); err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Account does not manage this restaurant")
				return
			}
			internalError(c, oc.log, "get restaurant orders", err)
			return
		}

		orders, err := oc.orders.FindByRestaurant(ctx, restaurantID)
		if err != nil {
			internalError(c, oc.log, "get restaurant orders", err)
			return
		}
		if len(orders) == 0 {
			c.JSON(http.StatusNoContent, gin.H{"message": "No Orders."})
			return
		}

		var truncated models.TruncatedUser
		user, err := oc.users.FindByID(ctx, userID)
		switch {
		case err == nil:
			truncated = user.Truncate()
		case !isNotFound(err):
			internalError(c, oc.log, "get restaurant orders", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": FilterRestaurantOrders(orders, restaurantID),
			"user":   truncated,
		})
	}
}

func (oc *OrderController) GetCompanyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := objectIDParam(c, "companyId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Company ID is required")
			return
		}
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := oc.companies.FindManaged(ctx, companyID, userID); err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Account does not manage this company")
				return
			}
			internalError(c, oc.log, "get company orders", err)
			return
		}

		orders, err := oc.orders.FindByTenant(ctx, companyID)
		if err != nil {
			internalError(c, oc.log, "get company orders", err)
			return
		}
		if len(orders) == 0 {
			c.JSON(http.StatusNoContent, gin.H{"message": "No Orders."})
			return
		}

		customers, err := oc.resolveCustomers(ctx, orders)
		if err != nil {
			internalError(c, oc.log, "get company orders", err)
			return
		}

		shaped := make([]CompanyOrder, 0, len(orders))
		for _, order := range orders {
			shaped = append(shaped, CompanyOrder{
				ID:          order.ID,
				User:        customers[order.UserID],
				UserID:      order.UserID,
				Restaurants: order.Restaurants,
				TotalPrice:  order.TotalPrice,
				Status:      order.Status,
				TenantID:    order.TenantID,
				CreatedAt:   order.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"orders": shaped})
	}
}

// resolveCustomers looks up every distinct customer of orders concurrently.
// Customers that no longer exist map to an empty TruncatedUser.
func (oc *OrderController) resolveCustomers(ctx context.Context, orders []models.Order) (map[primitive.ObjectID]models.TruncatedUser, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, order := range orders {
		if _, ok := seen[order.UserID]; !ok {
			seen[order.UserID] = struct{}{}
			ids = append(ids, order.UserID)
		}
	}

	results := make([]models.TruncatedUser, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userLookupConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			user, err := oc.users.FindByID(gctx, id)
			if err != nil {
				if isNotFound(err) {
					return nil
				}
				return err
			}
			results[i] = user.Truncate()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	customers := make(map[primitive.ObjectID]models.TruncatedUser, len(ids))
	for i, id := range ids {
		customers[id] = results[i]
	}
	return customers, nil
}

func (oc *OrderController) GetUserOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		orders, err := oc.orders.FindByUser(ctx, userID)
		if err != nil {
			internalError(c, oc.log, "get user orders", err)
			return
		}
		if len(orders) == 0 {
			c.JSON(http.StatusNoContent, gin.H{"message": "No Orders."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func (oc *OrderController) GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := objectIDParam(c, "orderId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Order ID is required")
			return
		}
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := oc.orders.FindByID(ctx, orderID)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Order not found")
				return
			}
			internalError(c, oc.log, "get order", err)
			return
		}

		if order.UserID != userID {
			manages, err := oc.managesOrder(ctx, order, userID)
			if err != nil {
				internalError(c, oc.log, "get order", err)
				return
			}
			if !manages {
				respondMessage(c, http.StatusNotFound, "Order not found")
				return
			}
		}
		c.JSON(http.StatusOK, order)
	}
}

type orderItemRequest struct {
	ItemID   string `json:"itemId" validate:"required,len=24,hexadecimal"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type orderRestaurantRequest struct {
	RestaurantID string             `json:"restaurantId" validate:"required,len=24,hexadecimal"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderRequest struct {
	FromCart    bool                     `json:"fromCart"`
	Restaurants []orderRestaurantRequest `json:"restaurants" validate:"omitempty,dive"`
}

// lines converts the validated request into unpriced order restaurants.
func (r *createOrderRequest) lines() []models.OrderRestaurant {
	out := make([]models.OrderRestaurant, 0, len(r.Restaurants))
	for _, rr := range r.Restaurants {
		restaurantID, _ := primitive.ObjectIDFromHex(rr.RestaurantID)
		group := models.OrderRestaurant{RestaurantID: restaurantID}
		for _, item := range rr.Items {
			itemID, _ := primitive.ObjectIDFromHex(item.ItemID)
			group.Items = append(group.Items, models.OrderItem{ItemID: itemID, Quantity: item.Quantity})
		}
		out = append(out, group)
	}
	return out
}

// orderValidationError carries a message safe to return with a 400.
type orderValidationError struct {
	msg string
}

func (e *orderValidationError) Error() string { return e.msg }

// priceOrder checks every restaurant belongs to tenantID and every item is on
// its menu and available, then fills in names and menu prices.
func (oc *OrderController) priceOrder(ctx context.Context, tenantID primitive.ObjectID, lines []models.OrderRestaurant) error {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, line := range lines {
		if _, ok := seen[line.RestaurantID]; !ok {
			seen[line.RestaurantID] = struct{}{}
			ids = append(ids, line.RestaurantID)
		}
	}

	restaurants, err := oc.restaurants.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*models.Restaurant, len(restaurants))
	for i := range restaurants {
		byID[restaurants[i].ID] = &restaurants[i]
	}

	for i := range lines {
		restaurant, ok := byID[lines[i].RestaurantID]
		if !ok || restaurant.TenantID != tenantID {
			return &orderValidationError{msg: fmt.Sprintf("Restaurant %s not found", lines[i].RestaurantID.Hex())}
		}
		for j := range lines[i].Items {
			item := &lines[i].Items[j]
			menuItem, ok := restaurant.MenuItem(item.ItemID)
			if !ok {
				return &orderValidationError{msg: fmt.Sprintf("Item %s not found in %s", item.ItemID.Hex(), restaurant.Name)}
			}
			if !menuItem.Available {
				return &orderValidationError{msg: fmt.Sprintf("%s is not available", menuItem.Name)}
			}
			item.Name = menuItem.Name
			item.Price = menuItem.Price
		}
	}
	return nil
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func (oc *OrderController) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		tenantID, ok := oc.requireTenant(ctx, c, oc.log, userID)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}

		lines := req.lines()
		if req.FromCart {
			cart, err := oc.carts.Get(ctx, tenantID, userID)
			if err != nil {
				internalError(c, oc.log, "create order", err)
				return
			}
			lines = cart.Restaurants()
		}
		if len(lines) == 0 {
			respondMessage(c, http.StatusBadRequest, "Order must contain at least one item")
			return
		}

		if err := oc.priceOrder(ctx, tenantID, lines); err != nil {
			var invalid *orderValidationError
			if errors.As(err, &invalid) {
				respondMessage(c, http.StatusBadRequest, invalid.msg)
				return
			}
			internalError(c, oc.log, "create order", err)
			return
		}

		order := &models.Order{
			UserID:      userID,
			Restaurants: lines,
			Status:      models.StatusPending,
			TenantID:    tenantID,
		}
		order.TotalPrice = roundPrice(order.ComputeTotal())

		if err := oc.orders.Create(ctx, order); err != nil {
			internalError(c, oc.log, "create order", err)
			return
		}

		if req.FromCart {
			if err := oc.carts.Delete(ctx, tenantID, userID); err != nil {
				oc.log.Warn("Failed to clear cart after order ", order.ID.Hex(), ": ", err)
			}
		}
		if oc.metrics != nil {
			oc.metrics.OrdersCreated.WithLabelValues(tenantID.Hex()).Inc()
		}
		oc.announce(ctx, events.OrderCreated, "newOrder", order, "")

		c.JSON(http.StatusCreated, order)
	}
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func (oc *OrderController) UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := objectIDParam(c, "orderId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Order ID is required")
			return
		}
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
			respondMessage(c, http.StatusBadRequest, "Invalid status")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := oc.orders.FindByID(ctx, orderID)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Order not found")
				return
			}
			internalError(c, oc.log, "update order status", err)
			return
		}

		manages, err := oc.managesOrder(ctx, order, userID)
		if err != nil {
			internalError(c, oc.log, "update order status", err)
			return
		}
		if !manages {
			if order.UserID != userID {
				respondMessage(c, http.StatusNotFound, "Order not found")
				return
			}
			if req.Status != models.StatusCancelled || order.Status != models.StatusPending {
				respondMessage(c, http.StatusForbidden, "Customers may only cancel pending orders")
				return
			}
		}

		if !order.Status.CanTransitionTo(req.Status) {
			respondMessage(c, http.StatusConflict, fmt.Sprintf("Cannot change status from %s to %s", order.Status, req.Status))
			return
		}

		previous := order.Status
		updated, err := oc.orders.UpdateStatus(ctx, orderID, previous, req.Status)
		if err != nil {
			if errors.Is(err, database.ErrStatusChanged) {
				respondMessage(c, http.StatusConflict, "Order status changed, reload and retry")
				return
			}
			internalError(c, oc.log, "update order status", err)
			return
		}

		if oc.metrics != nil {
			oc.metrics.OrderStatusChanges.WithLabelValues(string(updated.Status)).Inc()
		}
		oc.announce(ctx, events.OrderStatusChanged, "orderStatus", updated, previous)

		c.JSON(http.StatusOK, updated)
	}
}

// announce publishes the order event and pushes it to the tenant's live
// connections. Failures are logged only.
func (oc *OrderController) announce(ctx context.Context, routingKey, wsEvent string, order *models.Order, previous models.OrderStatus) {
	event := events.NewOrderEvent(routingKey, order, previous)
	if oc.publisher != nil {
		if err := oc.publisher.Publish(ctx, event); err != nil {
			oc.log.Warn("Failed to publish ", routingKey, " for order ", order.ID.Hex(), ": ", err)
		}
	}
	if oc.notifier != nil {
		oc.notifier.Broadcast(order.TenantID, Message{Event: wsEvent, Payload: event})
	}
}
