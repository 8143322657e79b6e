package middleware

import (
	"net/http"
	"strings"

	"go-food-ordering/helpers"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the middlewares in this package.
const (
	ClaimsKey   = "claims"
	UserIDKey   = "userId"
	TenantIDKey = "tenantId"
)

// TokenValidator verifies a signed token and returns its claims.
type TokenValidator interface {
	ValidateToken(signedToken string) (*helpers.SignedDetails, error)
}

// Authentication requires a valid "Authorization: Bearer <token>" header and
// stores the caller's claims on the context.
func Authentication(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, clientToken, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(clientToken) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(clientToken))
		if err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, userID)
		if tenantID, err := primitive.ObjectIDFromHex(claims.TenantID); err == nil {
			c.Set(TenantIDKey, tenantID)
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDFromContext(c, UserIDKey)
}

// TenantID returns the tenant resolved by Authentication or ExtractTenantID.
func TenantID(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDFromContext(c, TenantIDKey)
}

// Claims returns the verified token claims.
func Claims(c *gin.Context) (*helpers.SignedDetails, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.SignedDetails)
	return claims, ok
}

func objectIDFromContext(c *gin.Context, key string) (primitive.ObjectID, bool) {
	v, ok := c.Get(key)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}
