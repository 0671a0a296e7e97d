package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OutboundRepository define el puerto de persistencia para salidas de stock.
type OutboundRepository interface {
	Create(ctx context.Context, entry *entity.OutboundEntry) error
	GetByID(ctx context.Context, id string) (*entity.OutboundEntry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.OutboundEntry, error)
	Update(ctx context.Context, entry *entity.OutboundEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, itemID string, limit, offset int) ([]*entity.OutboundEntry, error)
	DeleteByItem(ctx context.Context, itemID string) error
	UnlinkLoan(ctx context.Context, loanID string) error
	TotalsByItem(ctx context.Context) (map[string]int, error)
	TotalForItem(ctx context.Context, itemID string) (int, error)
}
