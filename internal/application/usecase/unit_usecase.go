package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/validation"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UnitUseCase lista de referencia de unidades de medida.
type UnitUseCase struct {
	units repository.UnitRepository
	items repository.ItemRepository
	log   *logger.Logger
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(units repository.UnitRepository, items repository.ItemRepository, log *logger.Logger) *UnitUseCase {
	return &UnitUseCase{units: units, items: items, log: log.Component("units")}
}

// List devuelve todas las unidades ordenadas por nombre.
func (uc *UnitUseCase) List(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.units.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUnitResponse(u))
	}
	return out, nil
}

// Create registra una unidad. ErrDuplicate si el nombre ya existe.
func (uc *UnitUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.units.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, in.Name)
	}
	unit := &entity.Unit{ID: uuid.New().String(), Name: in.Name, CreatedAt: time.Now()}
	if err := uc.units.Create(ctx, unit); err != nil {
		return nil, err
	}
	res := toUnitResponse(unit)
	return &res, nil
}

// Delete elimina una unidad que ningún artículo usa (solo admin).
func (uc *UnitUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.items.CountByUnit(ctx, unit.Name)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: %d artículo(s) usan %q", domain.ErrUnitInUse, inUse, unit.Name)
	}
	if err := uc.units.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("unit_id", id).Str("name", unit.Name).Str("by", actor.UserID).Msg("unidad eliminada")
	return nil
}

func toUnitResponse(u *entity.Unit) dto.UnitResponse {
	return dto.UnitResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}
