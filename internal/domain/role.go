package domain

import (
	"fmt"     // Error formatting
	"strings" // String normalization
)

// Role is the closed set of account roles
type Role string

const (
	RoleAdmin  Role = "admin"  // Verifies listings and collects commission
	RoleSeller Role = "seller" // Lists products and settles sales
	RoleBuyer  Role = "buyer"  // Places bids
)

// ParseRole converts user input into a Role, rejecting anything outside the enumeration
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
