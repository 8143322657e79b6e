package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"go-food-ordering/helpers"
	"go-food-ordering/logger"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RestaurantController struct {
	access
	log logger.Logger
}

func NewRestaurantController(deps Dependencies) *RestaurantController {
	return &RestaurantController{
		access: access{
			users:       deps.Users,
			companies:   deps.Companies,
			restaurants: deps.Restaurants,
		},
		log: deps.Log,
	}
}

// NearbyRestaurant is a restaurant annotated with its distance from the
// caller.
type NearbyRestaurant struct {
	models.Restaurant
	DistanceKm float64 `json:"distanceKm"`
}

// geoFilter is the optional position filter of a restaurant listing.
type geoFilter struct {
	lat, lng, radiusKm float64
}

func parseGeoFilter(c *gin.Context) (*geoFilter, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return nil, true
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, false
	}
	filter := &geoFilter{lat: lat, lng: lng}
	if r := c.Query("radiusKm"); r != "" {
		radius, err := strconv.ParseFloat(r, 64)
		if err != nil || radius <= 0 {
			return nil, false
		}
		filter.radiusKm = radius
	}
	return filter, true
}

// apply annotates restaurants with their distance from the filter
// position, drops those outside the radius and orders the rest nearest first.
func (f *geoFilter) apply(restaurants []models.Restaurant) []NearbyRestaurant {
	out := make([]NearbyRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		d := helpers.DistanceKm(f.lat, f.lng, r.Location.Latitude, r.Location.Longitude)
		if f.radiusKm > 0 && d > f.radiusKm {
			continue
		}
		out = append(out, NearbyRestaurant{Restaurant: r, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

func (rc *RestaurantController) GetRestaurants() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		sessionTenant, _ := middleware.TenantID(c)

		tenantID := sessionTenant
		if q := c.Query("companyId"); q != "" {
			id, err := primitive.ObjectIDFromHex(q)
			if err != nil {
				respondMessage(c, http.StatusBadRequest, "Company ID is required")
				return
			}
			tenantID = id
		}
		if tenantID.IsZero() {
			respondMessage(c, http.StatusBadRequest, "Company ID is required")
			return
		}
		geo, ok := parseGeoFilter(c)
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Invalid location filter")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		allowed, err := rc.belongsToTenant(ctx, userID, tenantID, sessionTenant)
		if err != nil {
			internalError(c, rc.log, "get restaurants", err)
			return
		}
		if !allowed {
			respondMessage(c, http.StatusNotFound, "Account is not a member of this company")
			return
		}

		restaurants, err := rc.restaurants.FindByTenant(ctx, tenantID)
		if err != nil {
			internalError(c, rc.log, "get restaurants", err)
			return
		}
		if geo != nil {
			c.JSON(http.StatusOK, gin.H{"restaurants": geo.apply(restaurants)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
	}
}

func (rc *RestaurantController) GetRestaurant() gin.HandlerFunc {
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
		sessionTenant, _ := middleware.TenantID(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := rc.restaurants.FindByID(ctx, restaurantID)
		if err != nil {
			if isNotFound(err) {
				respondMessage(c, http.StatusNotFound, "Restaurant not found")
				return
			}
			internalError(c, rc.log, "get restaurant", err)
			return
		}

		if !restaurant.HasMember(userID) {
			allowed, err := rc.belongsToTenant(ctx, userID, restaurant.TenantID, sessionTenant)
			if err != nil {
				internalError(c, rc.log, "get restaurant", err)
				return
			}
			if !allowed {
				respondMessage(c, http.StatusNotFound, "Restaurant not found")
				return
			}
		}
		c.JSON(http.StatusOK, restaurant)
	}
}
