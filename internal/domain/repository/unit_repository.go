package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// UnitRepository define el puerto para la lista de referencia de unidades de medida.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	GetByName(ctx context.Context, name string) (*entity.Unit, error)
	List(ctx context.Context) ([]*entity.Unit, error)
	Delete(ctx context.Context, id string) error
}
