package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TenantHeader may carry the tenant when the token was issued without one.
const TenantHeader = "X-Tenant-ID"

// TenantFromHeaderKey is set when the tenant came from TenantHeader rather
// than the token. Such a tenant is unverified until the caller's membership
// is checked.
const TenantFromHeaderKey = "tenantFromHeader"

// ExtractTenantID resolves the tenant for tenant-scoped writes: the token's
// tenant wins, the X-Tenant-ID header is the fallback.
func ExtractTenantID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := TenantID(c); ok {
			c.Next()
			return
		}

		tenantID, err := primitive.ObjectIDFromHex(c.GetHeader(TenantHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Tenant ID is required"})
			return
		}
		c.Set(TenantIDKey, tenantID)
		c.Set(TenantFromHeaderKey, true)
		c.Next()
	}
}

// TenantFromHeader reports whether the tenant was taken from TenantHeader.
func TenantFromHeader(c *gin.Context) bool {
	return c.GetBool(TenantFromHeaderKey)
}
