package controllers

import (
	"context"
	"net/http"

	"go-food-ordering/logger"
	"go-food-ordering/middleware"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// access answers membership questions shared by several controllers.
type access struct {
	users       UserStore
	companies   CompanyStore
	restaurants RestaurantStore
}

// belongsToTenant reports whether userID may browse tenantID: the session was
// opened for that tenant, the user lists the company, or the user manages it.
func (a access) belongsToTenant(ctx context.Context, userID, tenantID, sessionTenant primitive.ObjectID) (bool, error) {
	if !sessionTenant.IsZero() && sessionTenant == tenantID {
		return true, nil
	}

	user, err := a.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		if user.BelongsTo(tenantID) {
			return true, nil
		}
	case !isNotFound(err):
		return false, err
	}

	return a.managesCompany(ctx, userID, tenantID)
}

// requireTenant returns the tenant of a tenant-scoped request. A tenant sent
// in the X-Tenant-ID header is only accepted for members of that company.
func (a access) requireTenant(ctx context.Context, c *gin.Context, log logger.Logger, userID primitive.ObjectID) (primitive.ObjectID, bool) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Tenant ID is required")
		return primitive.NilObjectID, false
	}
	if !middleware.TenantFromHeader(c) {
		return tenantID, true
	}

	allowed, err := a.belongsToTenant(ctx, userID, tenantID, primitive.NilObjectID)
	if err != nil {
		internalError(c, log, "resolve tenant", err)
		return primitive.NilObjectID, false
	}
	if !allowed {
		respondMessage(c, http.StatusNotFound, "Account is not a member of this company")
		return primitive.NilObjectID, false
	}
	return tenantID, true
}

func (a access) managesCompany(ctx context.Context, userID, companyID primitive.ObjectID) (bool, error) {
	_, err := a.companies.FindManaged(ctx, companyID, userID)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// managesOrder reports whether userID manages one of the order's restaurants
// or the order's company.
func (a access) managesOrder(ctx context.Context, order *models.Order, userID primitive.ObjectID) (bool, error) {
	restaurants, err := a.restaurants.FindByIDs(ctx, order.RestaurantIDs())
	if err != nil {
		return false, err
	}
	for i := range restaurants {
		if restaurants[i].HasMember(userID) {
			return true, nil
		}
	}
	return a.managesCompany(ctx, userID, order.TenantID)
}
