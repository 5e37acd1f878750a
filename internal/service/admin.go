package service

import (
	"context"
	"errors"
	"fmt"

	"auction_system/internal/domain"
	"auction_system/internal/store"
)

// platformAdmin resolves the account that collects commission. A configured id
// wins; otherwise exactly one admin must exist.
func platformAdmin(ctx context.Context, users store.UserStore, configuredID uint) (domain.User, error) {
	if configuredID != 0 {
		admin, err := users.GetByID(ctx, configuredID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNoPlatformAdmin
		}
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to load platform admin: %w", err)
		}
		if admin.Role != domain.RoleAdmin {
			return domain.User{}, ErrNoPlatformAdmin
		}
		return admin, nil
	}

	admins, err := users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to list admins: %w", err)
	}
	switch len(admins) {
	case 0:
		return domain.User{}, ErrNoPlatformAdmin
	case 1:
		return admins[0], nil
	default:
		return domain.User{}, ErrMultipleAdmins
	}
}
