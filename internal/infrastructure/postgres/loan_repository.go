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

var _ repository.LoanRepository = (*LoanRepo)(nil)

const loanColumns = `id, item_id, borrower_id_number, borrower_name, borrower_category, borrower_phone,
	borrower_address, quantity, loan_date, status, outbound_id, inbound_id, returned_at, created_by,
	created_at, updated_at`

// LoanRepo préstamos sobre PostgreSQL.
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

func (r *LoanRepo) Create(ctx context.Context, l *entity.LoanRecord) error {
	query := `INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ItemID, l.Borrower.IDNumber, l.Borrower.Name, l.Borrower.Category, l.Borrower.Phone,
		l.Borrower.Address, l.Quantity, l.LoanDate, string(l.Status), nullable(l.OutboundID), nullable(l.InboundID),
		l.ReturnedAt, nullable(l.CreatedBy), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepo) GetByID(ctx context.Context, id string) (*entity.LoanRecord, error) {
	return r.getOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del préstamo: dos devoluciones concurrentes se serializan aquí.
func (r *LoanRepo) GetForUpdate(ctx context.Context, id string) (*entity.LoanRecord, error) {
	return r.getOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *LoanRepo) getOne(ctx context.Context, query, id string) (*entity.LoanRecord, error) {
	l, err := scanLoan(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

func (r *LoanRepo) Update(ctx context.Context, l *entity.LoanRecord) error {
	query := `
		UPDATE loans SET item_id = $2, borrower_id_number = $3, borrower_name = $4, borrower_category = $5,
			borrower_phone = $6, borrower_address = $7, quantity = $8, loan_date = $9, status = $10,
			outbound_id = $11, inbound_id = $12, returned_at = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.ItemID, l.Borrower.IDNumber, l.Borrower.Name, l.Borrower.Category, l.Borrower.Phone,
		l.Borrower.Address, l.Quantity, l.LoanDate, string(l.Status), nullable(l.OutboundID), nullable(l.InboundID),
		l.ReturnedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LoanRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List préstamos más recientes primero; status vacío = todos.
func (r *LoanRepo) List(ctx context.Context, status entity.LoanStatus, limit, offset int) ([]*entity.LoanRecord, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY loan_date DESC, created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()
	var list []*entity.LoanRecord
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LoanRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM loans WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete loans by item: %w", err)
	}
	return nil
}

func (r *LoanRepo) CountOutstanding(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM loans WHERE status = 'outstanding'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outstanding loans: %w", err)
	}
	return n, nil
}

func scanLoan(row pgx.Row) (*entity.LoanRecord, error) {
	var l entity.LoanRecord
	var status string
	var outboundID, inboundID, createdBy *string
	err := row.Scan(&l.ID, &l.ItemID, &l.Borrower.IDNumber, &l.Borrower.Name, &l.Borrower.Category,
		&l.Borrower.Phone, &l.Borrower.Address, &l.Quantity, &l.LoanDate, &status, &outboundID, &inboundID,
		&l.ReturnedAt, &createdBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st, ok := entity.ParseLoanStatus(status)
	if !ok {
		return nil, fmt.Errorf("estado de préstamo desconocido %q", status)
	}
	l.Status = st
	l.OutboundID, l.InboundID, l.CreatedBy = deref(outboundID), deref(inboundID), deref(createdBy)
	return &l, nil
}
