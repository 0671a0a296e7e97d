package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InboundRepository define el puerto de persistencia para entradas de stock.
type InboundRepository interface {
	Create(ctx context.Context, entry *entity.InboundEntry) error
	GetByID(ctx context.Context, id string) (*entity.InboundEntry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InboundEntry, error)
	Update(ctx context.Context, entry *entity.InboundEntry) error
	Delete(ctx context.Context, id string) error
	// List lista entradas, opcionalmente filtradas por artículo (itemID vacío = todas).
	List(ctx context.Context, itemID string, limit, offset int) ([]*entity.InboundEntry, error)
	DeleteByItem(ctx context.Context, itemID string) error
	// UnlinkLoan quita la referencia al préstamo (al borrar un préstamo devuelto se conserva el historial).
	UnlinkLoan(ctx context.Context, loanID string) error
	// TotalsByItem suma de cantidades por artículo (conciliación).
	TotalsByItem(ctx context.Context) (map[string]int, error)
	// TotalForItem suma de cantidades de un solo artículo; 0 si no tiene entradas.
	TotalForItem(ctx context.Context, itemID string) (int, error)
}
