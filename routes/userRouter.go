package routes

import (
	"go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes are reachable without a token.
func AuthRoutes(incomingRoutes gin.IRouter, uc *controllers.UserController, cc *controllers.CompanyController) {
	incomingRoutes.POST("/auth/login", uc.Login())
	incomingRoutes.POST("/auth/signup", uc.SignUp())
	incomingRoutes.GET("/auth/companies", cc.ListPublicCompanies())
}

func UserRoutes(incomingRoutes gin.IRouter, uc *controllers.UserController, hub *controllers.Hub) {
	incomingRoutes.GET("/users/me", uc.GetMe())
	incomingRoutes.GET("/ws", hub.HandleWebSocket())
}
