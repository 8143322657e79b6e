package controllers

import (
	"context"
	"fmt"
	"net/http"

	"go-food-ordering/logger"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartController struct {
	access
	carts       CartStore
	restaurants RestaurantStore
	log         logger.Logger
}

func NewCartController(deps Dependencies) *CartController {
	return &CartController{
		access: access{
			users:       deps.Users,
			companies:   deps.Companies,
			restaurants: deps.Restaurants,
		},
		carts:       deps.Carts,
		restaurants: deps.Restaurants,
		log:         deps.Log,
	}
}

type cartResponse struct {
	*models.Cart
	Total float64 `json:"total"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	return cartResponse{Cart: cart, Total: roundPrice(cart.Total())}
}

type addToCartRequest struct {
	RestaurantID string `json:"restaurantId" validate:"required,len=24,hexadecimal"`
	ItemID       string `json:"itemId" validate:"required,len=24,hexadecimal"`
	Quantity     int    `json:"quantity" validate:"gte=0,lte=99"`
}

// cartSession returns the caller and tenant of a cart request, answering
// the error itself when either cannot be resolved.
func (cc *CartController) cartSession(ctx context.Context, c *gin.Context) (userID, tenantID primitive.ObjectID, ok bool) {
	if userID, ok = requireUser(c); !ok {
		return
	}
	tenantID, ok = cc.requireTenant(ctx, c, cc.log, userID)
	return
}

// AddToCart sets the quantity of one menu item in the caller's cart. A
// quantity of zero removes the line.
func (cc *CartController) AddToCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, tenantID, ok := cc.cartSession(ctx, c)
		if !ok {
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		restaurantID, _ := primitive.ObjectIDFromHex(req.RestaurantID)
		itemID, _ := primitive.ObjectIDFromHex(req.ItemID)

		line := models.CartLine{RestaurantID: restaurantID, ItemID: itemID, Quantity: req.Quantity}
		if req.Quantity > 0 {
			restaurant, err := cc.restaurants.FindByID(ctx, restaurantID)
			if err != nil && !isNotFound(err) {
				internalError(c, cc.log, "add to cart", err)
				return
			}
			if err != nil || restaurant.TenantID != tenantID {
				respondMessage(c, http.StatusNotFound, "Restaurant not found")
				return
			}
			menuItem, found := restaurant.MenuItem(itemID)
			if !found {
				respondMessage(c, http.StatusNotFound, "Item not found")
				return
			}
			if !menuItem.Available {
				respondMessage(c, http.StatusBadRequest, fmt.Sprintf("%s is not available", menuItem.Name))
				return
			}
			line.Name = menuItem.Name
			line.Price = menuItem.Price
		}

		cart, err := cc.carts.Get(ctx, tenantID, userID)
		if err != nil {
			internalError(c, cc.log, "add to cart", err)
			return
		}
		cart.SetLine(line)
		if err := cc.carts.Save(ctx, cart); err != nil {
			internalError(c, cc.log, "add to cart", err)
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}

func (cc *CartController) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, tenantID, ok := cc.cartSession(ctx, c)
		if !ok {
			return
		}

		cart, err := cc.carts.Get(ctx, tenantID, userID)
		if err != nil {
			internalError(c, cc.log, "get cart", err)
			return
		}
		c.JSON(http.StatusOK, newCartResponse(cart))
	}
}

func (cc *CartController) ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, tenantID, ok := cc.cartSession(ctx, c)
		if !ok {
			return
		}

		if err := cc.carts.Delete(ctx, tenantID, userID); err != nil {
			internalError(c, cc.log, "clear cart", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
