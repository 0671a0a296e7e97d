package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items    repository.ItemRepository
	Inbound  repository.InboundRepository
	Outbound repository.OutboundRepository
	Loans    repository.LoanRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock: Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
	// Snapshot ejecuta fn en una transacción de solo lectura con una vista consistente (conciliación).
	Snapshot(ctx context.Context, fn func(tx TxRepos) error) error
}
