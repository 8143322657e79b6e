package routes

import (
	"go-food-ordering/controllers"
	"go-food-ordering/middleware"

	"github.com/gin-gonic/gin"
)

// OrderRoutes registers the order and cart endpoints. Static segments are
// listed before /:orderId so they are never read as an id.
func OrderRoutes(incomingRoutes gin.IRouter, oc *controllers.OrderController, cc *controllers.CartController) {
	orders := incomingRoutes.Group("/orders")
	orders.GET("/own-orders", oc.GetUserOrders())
	orders.GET("/company/:companyId", oc.GetCompanyOrders())
	orders.GET("/restaurant/:restaurantId", oc.GetRestaurantOrders())

	tenant := orders.Group("", middleware.ExtractTenantID())
	tenant.POST("", oc.CreateOrder())
	tenant.POST("/", oc.CreateOrder())
	tenant.GET("/cart", cc.GetCart())
	tenant.POST("/cart", cc.AddToCart())
	tenant.DELETE("/cart", cc.ClearCart())

	orders.GET("/:orderId", oc.GetOrder())
	orders.PUT("/:orderId/status", oc.UpdateOrderStatus())
}
