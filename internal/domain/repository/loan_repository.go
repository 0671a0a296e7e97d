package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LoanRepository define el puerto de persistencia para préstamos.
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.LoanRecord) error
	GetByID(ctx context.Context, id string) (*entity.LoanRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.LoanRecord, error)
	Update(ctx context.Context, loan *entity.LoanRecord) error
	Delete(ctx context.Context, id string) error
	// List lista préstamos; status vacío = todos.
	List(ctx context.Context, status entity.LoanStatus, limit, offset int) ([]*entity.LoanRecord, error)
	DeleteByItem(ctx context.Context, itemID string) error
	CountOutstanding(ctx context.Context) (int, error)
}
