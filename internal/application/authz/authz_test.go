package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, authz.RequireAdmin(entity.Actor{UserID: "u1", Role: entity.RoleAdmin}))
	assert.ErrorIs(t, authz.RequireAdmin(entity.Actor{UserID: "u1", Role: entity.RoleStaff}), domain.ErrForbidden)
	assert.ErrorIs(t, authz.RequireAdmin(entity.Actor{}), domain.ErrUnauthorized)
}

func TestRequireAuthenticated(t *testing.T) {
	assert.NoError(t, authz.RequireAuthenticated(entity.Actor{UserID: "u1", Role: entity.RoleStaff}))
	assert.ErrorIs(t, authz.RequireAuthenticated(entity.Actor{UserID: "u1", Role: "vendedor"}), domain.ErrUnauthorized)
	assert.ErrorIs(t, authz.RequireAuthenticated(entity.Actor{Role: entity.RoleAdmin}), domain.ErrUnauthorized)
}
