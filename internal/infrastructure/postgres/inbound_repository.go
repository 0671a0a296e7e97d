package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InboundRepository = (*InboundRepo)(nil)

const inboundColumns = `id, item_id, quantity, received_at, source, loan_id, created_by, created_at, updated_at`

// InboundRepo entradas de stock sobre PostgreSQL.
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

func (r *InboundRepo) Create(ctx context.Context, e *entity.InboundEntry) error {
	query := `INSERT INTO inbound_entries (` + inboundColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ItemID, e.Quantity, e.ReceivedAt, e.Source, nullable(e.LoanID), nullable(e.CreatedBy),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inbound entry: %w", err)
	}
	return nil
}

func (r *InboundRepo) GetByID(ctx context.Context, id string) (*entity.InboundEntry, error) {
	return r.getOne(ctx, `SELECT `+inboundColumns+` FROM inbound_entries WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la entrada.
func (r *InboundRepo) GetForUpdate(ctx context.Context, id string) (*entity.InboundEntry, error) {
	return r.getOne(ctx, `SELECT `+inboundColumns+` FROM inbound_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *InboundRepo) getOne(ctx context.Context, query, id string) (*entity.InboundEntry, error) {
	e, err := scanInbound(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound entry: %w", err)
	}
	return e, nil
}

func (r *InboundRepo) Update(ctx context.Context, e *entity.InboundEntry) error {
	query := `
		UPDATE inbound_entries SET item_id = $2, quantity = $3, received_at = $4, source = $5,
			loan_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, e.ItemID, e.Quantity, e.ReceivedAt, e.Source, nullable(e.LoanID), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inbound entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InboundRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inbound_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inbound entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; itemID vacío = todas.
func (r *InboundRepo) List(ctx context.Context, itemID string, limit, offset int) ([]*entity.InboundEntry, error) {
	query := `
		SELECT ` + inboundColumns + ` FROM inbound_entries
		WHERE ($1::text = '' OR item_id::text = $1::text)
		ORDER BY received_at DESC, created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inbound entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.InboundEntry
	for rows.Next() {
		e, err := scanInbound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbound entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *InboundRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inbound_entries WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete inbound entries by item: %w", err)
	}
	return nil
}

func (r *InboundRepo) UnlinkLoan(ctx context.Context, loanID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE inbound_entries SET loan_id = NULL WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("unlink inbound entries: %w", err)
	}
	return nil
}

func (r *InboundRepo) TotalsByItem(ctx context.Context) (map[string]int, error) {
	return totalsByItem(ctx, r.q, `SELECT item_id, sum(quantity) FROM inbound_entries GROUP BY item_id`)
}

func (r *InboundRepo) TotalForItem(ctx context.Context, itemID string) (int, error) {
	return totalForItem(ctx, r.q, `SELECT COALESCE(sum(quantity), 0) FROM inbound_entries WHERE item_id = $1`, itemID)
}

func scanInbound(row pgx.Row) (*entity.InboundEntry, error) {
	var e entity.InboundEntry
	var loanID, createdBy *string
	err := row.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.ReceivedAt, &e.Source, &loanID, &createdBy,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.LoanID, e.CreatedBy = deref(loanID), deref(createdBy)
	return &e, nil
}

// totalForItem suma de un artículo; un ID que no es uuid no tiene entradas.
func totalForItem(ctx context.Context, q Querier, query, itemID string) (int, error) {
	var total int
	if err := q.QueryRow(ctx, query, itemID).Scan(&total); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("ledger total: %w", err)
	}
	return total, nil
}

// totalsByItem ejecuta una consulta (item_id, suma) y la devuelve como mapa.
func totalsByItem(ctx context.Context, q Querier, query string) (map[string]int, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	defer rows.Close()
	totals := make(map[string]int)
	for rows.Next() {
		var id string
		var sum int
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan ledger totals: %w", err)
		}
		totals[id] = sum
	}
	return totals, rows.Err()
}
