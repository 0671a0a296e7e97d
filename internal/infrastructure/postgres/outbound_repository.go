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

var _ repository.OutboundRepository = (*OutboundRepo)(nil)

const outboundColumns = `id, item_id, quantity, issued_at, reason, loan_id, created_by, created_at, updated_at`

// OutboundRepo salidas de stock sobre PostgreSQL.
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

func (r *OutboundRepo) Create(ctx context.Context, e *entity.OutboundEntry) error {
	query := `INSERT INTO outbound_entries (` + outboundColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ItemID, e.Quantity, e.IssuedAt, e.Reason, nullable(e.LoanID), nullable(e.CreatedBy),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbound entry: %w", err)
	}
	return nil
}

func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.OutboundEntry, error) {
	return r.getOne(ctx, `SELECT `+outboundColumns+` FROM outbound_entries WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la salida.
func (r *OutboundRepo) GetForUpdate(ctx context.Context, id string) (*entity.OutboundEntry, error) {
	return r.getOne(ctx, `SELECT `+outboundColumns+` FROM outbound_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *OutboundRepo) getOne(ctx context.Context, query, id string) (*entity.OutboundEntry, error) {
	e, err := scanOutbound(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound entry: %w", err)
	}
	return e, nil
}

func (r *OutboundRepo) Update(ctx context.Context, e *entity.OutboundEntry) error {
	query := `
		UPDATE outbound_entries SET item_id = $2, quantity = $3, issued_at = $4, reason = $5,
			loan_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, e.ItemID, e.Quantity, e.IssuedAt, e.Reason, nullable(e.LoanID), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update outbound entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OutboundRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM outbound_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outbound entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero; itemID vacío = todas.
func (r *OutboundRepo) List(ctx context.Context, itemID string, limit, offset int) ([]*entity.OutboundEntry, error) {
	query := `
		SELECT ` + outboundColumns + ` FROM outbound_entries
		WHERE ($1::text = '' OR item_id::text = $1::text)
		ORDER BY issued_at DESC, created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list outbound entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundEntry
	for rows.Next() {
		e, err := scanOutbound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbound entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *OutboundRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM outbound_entries WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete outbound entries by item: %w", err)
	}
	return nil
}

func (r *OutboundRepo) UnlinkLoan(ctx context.Context, loanID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE outbound_entries SET loan_id = NULL WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("unlink outbound entries: %w", err)
	}
	return nil
}

func (r *OutboundRepo) TotalsByItem(ctx context.Context) (map[string]int, error) {
	return totalsByItem(ctx, r.q, `SELECT item_id, sum(quantity) FROM outbound_entries GROUP BY item_id`)
}

func (r *OutboundRepo) TotalForItem(ctx context.Context, itemID string) (int, error) {
	return totalForItem(ctx, r.q, `SELECT COALESCE(sum(quantity), 0) FROM outbound_entries WHERE item_id = $1`, itemID)
}

func scanOutbound(row pgx.Row) (*entity.OutboundEntry, error) {
	var e entity.OutboundEntry
	var loanID, createdBy *string
	err := row.Scan(&e.ID, &e.ItemID, &e.Quantity, &e.IssuedAt, &e.Reason, &loanID, &createdBy,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.LoanID, e.CreatedBy = deref(loanID), deref(createdBy)
	return &e, nil
}
