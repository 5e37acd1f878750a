// Package access holds the authorization predicates. They are pure functions
// over the identity decoded from a bearer token, so they can be used from
// middleware, services and tests alike.
package access

import (
	"errors"

	"auction_system/internal/domain"
)

var (
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity lacks the required role or ownership.
	ErrForbidden = errors.New("you are not authorized to access this resource")
)

// Identity is the claim carried by a bearer token.
type Identity struct {
	UserID uint        `json:"id"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
}

// Authenticated reports whether the identity refers to a user with a known role.
func (id Identity) Authenticated() bool {
	return id.UserID != 0 && id.Role.Valid()
}

// Require allows the identity when it holds any of roles.
func Require(id Identity, roles ...domain.Role) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// RequireOwner allows the identity only when it is the record owner.
func RequireOwner(id Identity, ownerID uint) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	if ownerID == 0 || id.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}
