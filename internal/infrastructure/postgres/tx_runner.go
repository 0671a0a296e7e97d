package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos de fila (SELECT FOR UPDATE) duran hasta el Commit/Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// Snapshot ejecuta fn en una transacción de solo lectura REPEATABLE READ: todas las consultas
// ven la misma foto de la base (conciliación).
func (r *TxRunner) Snapshot(ctx context.Context, fn func(tx inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(tx inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Items:    NewItemRepository(tx),
		Inbound:  NewInboundRepository(tx),
		Outbound: NewOutboundRepository(tx),
		Loans:    NewLoanRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
