package routes

import (
	"go-food-ordering/controllers"

	"github.com/gin-gonic/gin"
)

func CompanyRoutes(incomingRoutes gin.IRouter, cc *controllers.CompanyController) {
	incomingRoutes.GET("/companies", cc.GetMyCompanies())
	incomingRoutes.GET("/companies/:companyId", cc.GetCompany())
}
