package routes

import (
	"go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

func RestaurantRoutes(incomingRoutes gin.IRouter, rc *controllers.RestaurantController, mc *controllers.MenuController) {
	incomingRoutes.GET("/restaurants", rc.GetRestaurants())
	incomingRoutes.GET("/restaurants/:restaurantId", rc.GetRestaurant())
	incomingRoutes.POST("/restaurants/:restaurantId/menu", mc.CreateMenuItem())
	incomingRoutes.PATCH("/restaurants/:restaurantId/menu/:itemId", mc.UpdateMenuItem())
}
