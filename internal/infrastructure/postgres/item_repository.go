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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, name_key, stock_on_hand, unit_of_measure, stock_category, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create inserta el artículo. name_key duplicado responde ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.NameKey, item.StockOnHand, item.UnitOfMeasure, item.StockCategory,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un artículo llamado %q", domain.ErrDuplicate, item.Name)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetByNameKey busca por nombre normalizado.
func (r *ItemRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE name_key = $1`, nameKey)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update sobrescribe todos los campos editables (corrección manual).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, name_key = $3, stock_on_hand = $4, unit_of_measure = $5,
			stock_category = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.NameKey, item.StockOnHand, item.UnitOfMeasure, item.StockCategory, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un artículo llamado %q", domain.ErrDuplicate, item.Name)
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe el stock materializado. El CHECK (stock_on_hand >= 0) es la última barrera.
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET stock_on_hand = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por nombre normalizado.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name_key, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina el artículo; falla si aún hay movimientos o préstamos (FK RESTRICT).
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el artículo aún tiene historial", domain.ErrConflict)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByUnit cuenta artículos que usan la unidad (sin distinguir mayúsculas).
func (r *ItemRepo) CountByUnit(ctx context.Context, unit string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM items WHERE lower(unit_of_measure) = lower($1)`, unit).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items by unit: %w", err)
	}
	return n, nil
}

// Summary conteos del tablero en una sola consulta.
func (r *ItemRepo) Summary(ctx context.Context) (repository.ItemSummary, error) {
	var s repository.ItemSummary
	query := `
		SELECT count(*),
			COALESCE(sum(stock_on_hand), 0),
			count(*) FILTER (WHERE stock_on_hand = 0)
		FROM items`
	if err := r.q.QueryRow(ctx, query).Scan(&s.Items, &s.TotalStock, &s.OutOfStock); err != nil {
		return s, fmt.Errorf("item summary: %w", err)
	}
	return s, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Name, &it.NameKey, &it.StockOnHand, &it.UnitOfMeasure, &it.StockCategory,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
