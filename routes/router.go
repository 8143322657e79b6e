// Package routes wires the controllers onto a gin engine.
package routes

import (
	"net/http"
	"time"

	"go-food-ordering/controllers"
	"go-food-ordering/logger"
	"go-food-ordering/metrics"
	"go-food-ordering/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options is everything NewRouter needs.
type Options struct {
	Deps         controllers.Dependencies
	Tokens       middleware.TokenValidator
	Hub          *controllers.Hub
	Metrics      *metrics.Metrics
	Log          logger.Logger
	AllowOrigins []string
}

// NewRouter builds the API. Routes registered before the Authentication
// middleware are public.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(opts.Log, opts.Metrics))
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  opts.AllowOrigins,
		AllowMethods:  []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.TenantHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		// Browsers refuse credentials on a wildcard origin.
		AllowCredentials: !allowsAnyOrigin(opts.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	deps := opts.Deps
	if deps.Notifier == nil && opts.Hub != nil {
		deps.Notifier = opts.Hub
	}
	if deps.Metrics == nil {
		deps.Metrics = opts.Metrics
	}

	userController := controllers.NewUserController(deps)
	companyController := controllers.NewCompanyController(deps)

	// API routes
	AuthRoutes(router, userController, companyController)
	router.Use(middleware.Authentication(opts.Tokens))
	UserRoutes(router, userController, opts.Hub)
	CompanyRoutes(router, companyController)
	RestaurantRoutes(router, controllers.NewRestaurantController(deps), controllers.NewMenuController(deps))
	OrderRoutes(router, controllers.NewOrderController(deps), controllers.NewCartController(deps))

	return router
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
