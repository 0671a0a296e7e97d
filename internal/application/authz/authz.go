package authz

import (
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RequireAuthenticated exige un actor con identidad y rol válido (admin o staff).
func RequireAuthenticated(actor entity.Actor) error {
	if !actor.IsAuthenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}

// RequireAdmin exige rol admin: borrados, correcciones manuales y cuentas de usuario.
func RequireAdmin(actor entity.Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
