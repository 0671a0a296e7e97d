package inventory

import (
	"context"
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

// InboundUseCase libro de entradas: cada entrada suma su cantidad al stock una sola vez
// y la edición/borrado revierten ese efecto de forma simétrica.
type InboundUseCase struct {
	tx      TxRunner
	inbound repository.InboundRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewInboundUseCase construye el caso de uso.
func NewInboundUseCase(tx TxRunner, inbound repository.InboundRepository, log *logger.Logger) *InboundUseCase {
	return &InboundUseCase{tx: tx, inbound: inbound, log: log.Component("inbound"), now: time.Now}
}

// CreateInbound suma Quantity al stock del artículo y registra la entrada.
func (uc *InboundUseCase) CreateInbound(ctx context.Context, actor entity.Actor, in dto.CreateInboundRequest) (*dto.InboundResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.SourceDetail = strings.TrimSpace(in.SourceDetail)
	source, receivedAt, err := checkInbound(in, in.SourceKind, in.SourceDetail, in.ReceivedAt)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	entry := &entity.InboundEntry{
		ID:         uuid.New().String(),
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		ReceivedAt: receivedAt,
		Source:     source,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var stockAfter int
	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		item, err := lockItem(ctx, tx.Items, in.ItemID)
		if err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, inventory.Restore(item.StockOnHand, in.Quantity), now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand
		return tx.Inbound.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "inbound.create").Str("entry_id", entry.ID).Str("item_id", entry.ItemID).
		Int("delta", entry.Quantity).Int("stock", stockAfter).Msg("entrada registrada")
	return toInboundResponse(entry), nil
}

// UpdateInbound cambia cantidad, fecha y origen; aplica al stock la diferencia nueva - anterior.
// Se rechaza con ErrInsufficientStock si el stock resultante quedaría negativo.
func (uc *InboundUseCase) UpdateInbound(ctx context.Context, actor entity.Actor, id string, in dto.UpdateInboundRequest) (*dto.InboundResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.SourceDetail = strings.TrimSpace(in.SourceDetail)
	source, receivedAt, err := checkInbound(in, in.SourceKind, in.SourceDetail, in.ReceivedAt)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var entry *entity.InboundEntry
	var delta, stockAfter int
	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Inbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.LoanID != "" {
			return domain.ErrManagedByLoan
		}
		item, err := lockItem(ctx, tx.Items, current.ItemID)
		if err != nil {
			return err
		}
		entry, err = tx.Inbound.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.ItemID != item.ID {
			return errMovedConcurrently("entrada", id)
		}

		delta = in.Quantity - entry.Quantity
		stock, err := inventory.ApplyDelta(item.StockOnHand, delta)
		if err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, stock, now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand

		entry.Quantity = in.Quantity
		entry.ReceivedAt = receivedAt
		entry.Source = source
		entry.UpdatedAt = now
		return tx.Inbound.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "inbound.update").Str("entry_id", entry.ID).Str("item_id", entry.ItemID).
		Int("delta", delta).Int("stock", stockAfter).Msg("entrada actualizada")
	return toInboundResponse(entry), nil
}

// DeleteInbound revierte la entrada y la elimina. Falla con ErrReversalExceedsStock si el stock
// actual es menor que la cantidad de la entrada.
func (uc *InboundUseCase) DeleteInbound(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	now := uc.now()
	var itemID string
	var qty, stockAfter int
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Inbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.LoanID != "" {
			return domain.ErrManagedByLoan
		}
		item, err := lockItem(ctx, tx.Items, current.ItemID)
		if err != nil {
			return err
		}
		entry, err := tx.Inbound.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.ItemID != item.ID {
			return errMovedConcurrently("entrada", id)
		}
		stock, err := inventory.ReverseInbound(item.StockOnHand, entry.Quantity)
		if err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, stock, now); err != nil {
			return err
		}
		itemID, qty, stockAfter = item.ID, entry.Quantity, item.StockOnHand
		return tx.Inbound.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("op", "inbound.delete").Str("entry_id", id).Str("item_id", itemID).
		Int("delta", -qty).Int("stock", stockAfter).Msg("entrada revertida")
	return nil
}

// GetInbound obtiene una entrada por ID.
func (uc *InboundUseCase) GetInbound(ctx context.Context, id string) (*dto.InboundResponse, error) {
	entry, err := uc.inbound.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return toInboundResponse(entry), nil
}

// ListInbound lista entradas; itemID vacío = todas.
func (uc *InboundUseCase) ListInbound(ctx context.Context, itemID string, page dto.PageRequest) (*dto.InboundListResponse, error) {
	page.DefaultPage()
	list, err := uc.inbound.List(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InboundResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toInboundResponse(e))
	}
	return &dto.InboundListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// checkInbound valida la petición y compone el texto de origen y la fecha.
func checkInbound(req any, kind, detail, date string) (string, time.Time, error) {
	ve := validation.Check(req)
	var source string
	if _, bad := ve.Fields["source_kind"]; !bad {
		var err error
		source, err = entity.FormatInboundSource(kind, detail)
		if err != nil {
			ve.Add("source_detail", "es obligatorio para este origen")
		}
	}
	if err := ve.OrNil(); err != nil {
		return "", time.Time{}, err
	}
	receivedAt, err := dto.ParseDate(date)
	if err != nil {
		return "", time.Time{}, err
	}
	return source, receivedAt, nil
}

func toInboundResponse(e *entity.InboundEntry) *dto.InboundResponse {
	return &dto.InboundResponse{
		ID:         e.ID,
		ItemID:     e.ItemID,
		Quantity:   e.Quantity,
		ReceivedAt: dto.FormatDate(e.ReceivedAt),
		Source:     e.Source,
		LoanID:     e.LoanID,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
