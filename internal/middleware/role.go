package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"auction_system/internal/access" // Authorization predicates
	"auction_system/internal/domain" // Roles

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole lets the request through only when the token's role is one of
// roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := access.Require(CurrentIdentity(c), roles...)
		switch {
		case err == nil:
			c.Next() // Role allowed, proceed
		case errors.Is(err, access.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not authorized to access this resource"})
		}
	}
}
