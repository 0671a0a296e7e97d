package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos que devuelven *entity.Item responden (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateStock(ctx context.Context, id string, stock int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
	CountByUnit(ctx context.Context, unit string) (int, error)
	Summary(ctx context.Context) (ItemSummary, error)
}

// ItemSummary conteos agregados del catálogo.
type ItemSummary struct {
	Items      int
	TotalStock int
	OutOfStock int
}
