package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Disciplina común de todas las mutaciones del libro:
//  1. leer el movimiento (sin bloqueo) para conocer los artículos afectados;
//  2. bloquear las filas de artículos en orden ascendente de ID (SELECT FOR UPDATE);
//  3. releer el movimiento con bloqueo y verificar que sigue apuntando a los mismos artículos;
//  4. validar reglas de negocio sobre el stock bloqueado y escribir stock + movimiento.
// Todo ocurre dentro de un único TxRunner.Run.

// lockItems bloquea los artículos indicados (sin duplicados, orden ascendente) y los devuelve por ID.
func lockItems(ctx context.Context, repo repository.ItemRepository, ids ...string) (map[string]*entity.Item, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)

	locked := make(map[string]*entity.Item, len(uniq))
	for _, id := range uniq {
		item, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		locked[id] = item
	}
	return locked, nil
}

// lockItem atajo de lockItems para un solo artículo.
func lockItem(ctx context.Context, repo repository.ItemRepository, id string) (*entity.Item, error) {
	locked, err := lockItems(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	return locked[id], nil
}

// writeStock persiste el nuevo stock si cambió.
func writeStock(ctx context.Context, repo repository.ItemRepository, item *entity.Item, stock int, now time.Time) error {
	if item.StockOnHand == stock {
		return nil
	}
	if err := repo.UpdateStock(ctx, item.ID, stock); err != nil {
		return err
	}
	item.StockOnHand = stock
	item.UpdatedAt = now
	return nil
}

// errMovedConcurrently el movimiento cambió de artículo entre la lectura y el bloqueo.
func errMovedConcurrently(kind, id string) error {
	return fmt.Errorf("%w: %s %s fue modificado concurrentemente, reintente", domain.ErrConflict, kind, id)
}

// dateOrToday devuelve la fecha indicada o la fecha de hoy (truncada a día).
func dateOrToday(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return truncateDay(now), nil
	}
	return dto.ParseDate(s)
}

// truncateDay fecha de negocio (UTC, sin hora) correspondiente a t.
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
