package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/validation"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// CatalogUseCase casos de uso del catálogo de artículos. El stock solo se mueve vía el libro,
// salvo UpdateItem, que es la vía de corrección manual.
type CatalogUseCase struct {
	tx    TxRunner
	items repository.ItemRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(tx TxRunner, items repository.ItemRepository, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{tx: tx, items: items, log: log.Component("catalog"), now: time.Now}
}

// CreateItem crea un artículo. Si InitialStock > 0 registra en la misma transacción
// una entrada con origen "Stock inicial".
func (uc *CatalogUseCase) CreateItem(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.UnitOfMeasure = strings.TrimSpace(in.UnitOfMeasure)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	receivedAt, err := dateOrToday(in.ReceivedAt, now)
	if err != nil {
		return nil, err
	}

	item := &entity.Item{
		ID:            uuid.New().String(),
		Name:          in.Name,
		NameKey:       inventory.NameKey(in.Name),
		StockOnHand:   in.InitialStock,
		UnitOfMeasure: in.UnitOfMeasure,
		StockCategory: in.StockCategory,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		existing, err := tx.Items.GetByNameKey(ctx, item.NameKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe un artículo llamado %q", domain.ErrDuplicate, existing.Name)
		}
		if err := tx.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		source, _ := entity.FormatInboundSource(entity.InboundSourceInitialStock, "")
		return tx.Inbound.Create(ctx, &entity.InboundEntry{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			Quantity:   in.InitialStock,
			ReceivedAt: receivedAt,
			Source:     source,
			CreatedBy:  actor.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "item.create").Str("item_id", item.ID).Int("initial_stock", in.InitialStock).
		Str("user_id", actor.UserID).Msg("artículo creado")
	return toItemResponse(item), nil
}

// UpdateItem sobrescribe nombre, stock, unidad y categoría. No concilia con el libro:
// es la vía de corrección manual y queda registrada en el log como tal.
func (uc *CatalogUseCase) UpdateItem(ctx context.Context, actor entity.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.UnitOfMeasure = strings.TrimSpace(in.UnitOfMeasure)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	nameKey := inventory.NameKey(in.Name)

	var item *entity.Item
	var previousStock int
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		var err error
		item, err = lockItem(ctx, tx.Items, id)
		if err != nil {
			return err
		}
		if nameKey != item.NameKey {
			other, err := tx.Items.GetByNameKey(ctx, nameKey)
			if err != nil {
				return err
			}
			if other != nil && other.ID != item.ID {
				return fmt.Errorf("%w: ya existe un artículo llamado %q", domain.ErrDuplicate, other.Name)
			}
		}
		previousStock = item.StockOnHand
		item.Name = in.Name
		item.NameKey = nameKey
		item.StockOnHand = in.StockOnHand
		item.UnitOfMeasure = in.UnitOfMeasure
		item.StockCategory = in.StockCategory
		item.UpdatedAt = now
		return tx.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	if previousStock != item.StockOnHand {
		uc.log.Warn().Str("op", "item.update").Str("item_id", item.ID).
			Int("stock_before", previousStock).Int("stock_after", item.StockOnHand).
			Str("user_id", actor.UserID).Msg("corrección manual de stock fuera del libro")
	}
	return toItemResponse(item), nil
}

// DeleteItem borra el artículo junto con todas sus entradas, salidas y préstamos. Irreversible.
func (uc *CatalogUseCase) DeleteItem(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		if _, err := lockItem(ctx, tx.Items, id); err != nil {
			return err
		}
		if err := tx.Loans.DeleteByItem(ctx, id); err != nil {
			return err
		}
		if err := tx.Inbound.DeleteByItem(ctx, id); err != nil {
			return err
		}
		if err := tx.Outbound.DeleteByItem(ctx, id); err != nil {
			return err
		}
		return tx.Items.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("op", "item.delete").Str("item_id", id).Str("user_id", actor.UserID).Msg("artículo eliminado con su historial")
	return nil
}

// GetItem obtiene un artículo por ID.
func (uc *CatalogUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// ListItems lista artículos con paginación.
func (uc *CatalogUseCase) ListItems(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.items.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		StockOnHand:   it.StockOnHand,
		UnitOfMeasure: it.UnitOfMeasure,
		StockCategory: it.StockCategory,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
