package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"auction_system/internal/access" // Identity carried by the token
	"auction_system/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// identityKey is where Authenticate stores the caller's identity
const identityKey = "identity"

// Authenticate validates the bearer token and stores the identity it carries
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)                          // Verify signature and expiry
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(identityKey, claims.Identity()) // Store identity in context
		c.Next()                              // Proceed to the next handler
	}
}

// CurrentIdentity returns the identity stored by Authenticate, or the zero
// Identity on public routes
func CurrentIdentity(c *gin.Context) access.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(access.Identity); ok {
			return id
		}
	}
	return access.Identity{}
}
