package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo lista de referencia de unidades de medida.
type UnitRepo struct {
	pool *pgxpool.Pool
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(pool *pgxpool.Pool) *UnitRepo {
	return &UnitRepo{pool: pool}
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO units (id, name, created_at) VALUES ($1, $2, $3)`, u.ID, u.Name, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, u.Name)
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM units WHERE id = $1`, id)
}

// GetByName sin distinguir mayúsculas (índice único sobre lower(name)).
func (r *UnitRepo) GetByName(ctx context.Context, name string) (*entity.Unit, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM units WHERE lower(name) = lower($1)`, name)
}

func (r *UnitRepo) getOne(ctx context.Context, query, arg string) (*entity.Unit, error) {
	var u entity.Unit
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
