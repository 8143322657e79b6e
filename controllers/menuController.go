package controllers

import (
	"net/http"

	"go-food-ordering/logger"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuController lets restaurant members edit their menu.
type MenuController struct {
	restaurants RestaurantStore
	notifier    Notifier
	log         logger.Logger
}

func NewMenuController(deps Dependencies) *MenuController {
	return &MenuController{restaurants: deps.Restaurants, notifier: deps.Notifier, log: deps.Log}
}

type createMenuItemRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Available   *bool   `json:"available"`
}

type menuEvent struct {
	RestaurantID primitive.ObjectID `json:"restaurantId"`
	Item         models.MenuItem    `json:"item"`
}

// managedRestaurant resolves the :restaurantId parameter to a restaurant the
// caller is a member of, answering the error itself when it cannot.
func (mc *MenuController) managedRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	restaurantID, ok := objectIDParam(c, "restaurantId")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Restaurant ID is required")
		return nil, false
	}
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	restaurant, err := mc.restaurants.FindManaged(ctx, restaurantID, userID)
	if err != nil {
		if isNotFound(err) {
			respondMessage(c, http.StatusNotFound, "Account does not manage this restaurant")
			return nil, false
		}
		internalError(c, mc.log, "find restaurant", err)
		return nil, false
	}
	return restaurant, true
}

func (mc *MenuController) CreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createMenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}

		restaurant, ok := mc.managedRestaurant(c)
		if !ok {
			return
		}

		item := &models.MenuItem{
			Name:        req.Name,
			Description: req.Description,
			Price:       roundPrice(req.Price),
			Available:   req.Available == nil || *req.Available,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := mc.restaurants.AddMenuItem(ctx, restaurant.ID, item); err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Restaurant not found")
				return
			}
			internalError(c, mc.log, "create menu item", err)
			return
		}

		mc.announce(restaurant, *item)
		c.JSON(http.StatusCreated, item)
	}
}

func (mc *MenuController) UpdateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := objectIDParam(c, "itemId")
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Item ID is required")
			return
		}

		var patch models.MenuItemPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&patch); err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		if patch.Empty() {
			respondMessage(c, http.StatusBadRequest, "Nothing to update")
			return
		}
		if patch.Price != nil {
			price := roundPrice(*patch.Price)
			patch.Price = &price
		}

		restaurant, ok := mc.managedRestaurant(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := mc.restaurants.UpdateMenuItem(ctx, restaurant.ID, itemID, patch)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Item not found")
				return
			}
			internalError(c, mc.log, "update menu item", err)
			return
		}
		item, found := updated.MenuItem(itemID)
		if !found {
			respondMessage(c, http.StatusNotFound, "Item not found")
			return
		}

		mc.announce(updated, item)
		c.JSON(http.StatusOK, item)
	}
}

// announce tells the tenant's live clients that a menu changed.
func (mc *MenuController) announce(restaurant *models.Restaurant, item models.MenuItem) {
	if mc.notifier == nil {
		return
	}
	mc.notifier.Broadcast(restaurant.TenantID, Message{
		Event:   "menuUpdated",
		Payload: menuEvent{RestaurantID: restaurant.ID, Item: item},
	})
}
