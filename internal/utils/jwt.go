package utils

import (
	"errors" // Sentinel errors
	"fmt"    // Error wrapping
	"time"   // Time for token expiration

	"auction_system/internal/access" // Identity claim
	"auction_system/internal/domain" // Role enumeration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is the validity of a login token
const TokenTTL = 48 * time.Hour

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid or expired token")

// JWT Claims
type Claims struct {
	UserID               uint        `json:"id"`    // User ID
	Role                 domain.Role `json:"role"`  // User role
	Email                string      `json:"email"` // User email
	Name                 string      `json:"name"`  // User name
	jwt.RegisteredClaims             // Standard JWT claims
}

// Identity extracts the access claim from the token claims
func (c *Claims) Identity() access.Identity {
	return access.Identity{UserID: c.UserID, Role: c.Role, Email: c.Email, Name: c.Name}
}

// GenerateJWT creates a signed token carrying the identity
func GenerateJWT(id access.Identity, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID: id.UserID, // Custom claims
		Role:   id.Role,
		Email:  id.Email,
		Name:   id.Name,
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString([]byte(secret))           // Sign the token with the secret
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseJWT verifies the signature and expiry and returns the claims. It fails closed.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		// Reject anything that is not HMAC signed
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// Validate token and the identity it carries
	if !token.Valid || !claims.Identity().Authenticated() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
