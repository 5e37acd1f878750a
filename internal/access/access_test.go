package access

import (
	"testing"

	"auction_system/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		roles   []domain.Role
		wantErr error
	}{
		{name: "matching role", id: Identity{UserID: 1, Role: domain.RoleAdmin}, roles: []domain.Role{domain.RoleAdmin}},
		{name: "one of several", id: Identity{UserID: 1, Role: domain.RoleSeller}, roles: []domain.Role{domain.RoleAdmin, domain.RoleSeller}},
		{name: "wrong role", id: Identity{UserID: 1, Role: domain.RoleBuyer}, roles: []domain.Role{domain.RoleSeller}, wantErr: ErrForbidden},
		{name: "no roles allowed", id: Identity{UserID: 1, Role: domain.RoleBuyer}, wantErr: ErrForbidden},
		{name: "zero identity", id: Identity{}, roles: []domain.Role{domain.RoleBuyer}, wantErr: ErrUnauthenticated},
		{name: "unknown role", id: Identity{UserID: 3, Role: "root"}, roles: []domain.Role{domain.RoleAdmin}, wantErr: ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.id, tt.roles...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequireOwner(t *testing.T) {
	seller := Identity{UserID: 7, Role: domain.RoleSeller}

	assert.NoError(t, RequireOwner(seller, 7))
	assert.ErrorIs(t, RequireOwner(seller, 8), ErrForbidden)
	assert.ErrorIs(t, RequireOwner(seller, 0), ErrForbidden)
	assert.ErrorIs(t, RequireOwner(Identity{}, 7), ErrUnauthenticated)
}
