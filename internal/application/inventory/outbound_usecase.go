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

// OutboundUseCase libro de salidas: cada salida descuenta su cantidad del stock una sola vez.
type OutboundUseCase struct {
	tx       TxRunner
	outbound repository.OutboundRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewOutboundUseCase construye el caso de uso.
func NewOutboundUseCase(tx TxRunner, outbound repository.OutboundRepository, log *logger.Logger) *OutboundUseCase {
	return &OutboundUseCase{tx: tx, outbound: outbound, log: log.Component("outbound"), now: time.Now}
}

// CreateOutbound verifica stock >= Quantity, lo descuenta y registra la salida.
func (uc *OutboundUseCase) CreateOutbound(ctx context.Context, actor entity.Actor, in dto.CreateOutboundRequest) (*dto.OutboundResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.ReasonDetail = strings.TrimSpace(in.ReasonDetail)
	reason, issuedAt, err := checkOutbound(in, in.ReasonKind, in.ReasonDetail, in.IssuedAt)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	entry := &entity.OutboundEntry{
		ID:        uuid.New().String(),
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		IssuedAt:  issuedAt,
		Reason:    reason,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var stockAfter int
	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		item, err := lockItem(ctx, tx.Items, in.ItemID)
		if err != nil {
			return err
		}
		stock, err := inventory.Issue(item.StockOnHand, in.Quantity)
		if err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, stock, now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand
		return tx.Outbound.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "outbound.create").Str("entry_id", entry.ID).Str("item_id", entry.ItemID).
		Int("delta", -entry.Quantity).Int("stock", stockAfter).Msg("salida registrada")
	return toOutboundResponse(entry), nil
}

// UpdateOutbound edita una salida. Con el mismo artículo aplica la diferencia de cantidad;
// si cambia el artículo repone la cantidad anterior al artículo original y descuenta la nueva
// del artículo destino. Ambos pasos ocurren en la misma transacción: si el destino no tiene
// stock suficiente no queda ningún cambio visible.
func (uc *OutboundUseCase) UpdateOutbound(ctx context.Context, actor entity.Actor, id string, in dto.UpdateOutboundRequest) (*dto.OutboundResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	in.ReasonDetail = strings.TrimSpace(in.ReasonDetail)
	reason, issuedAt, err := checkOutbound(in, in.ReasonKind, in.ReasonDetail, in.IssuedAt)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var entry *entity.OutboundEntry
	var oldItemID string
	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Outbound.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.LoanID != "" {
			return domain.ErrManagedByLoan
		}
		targetID := in.ItemID
		if targetID == "" {
			targetID = current.ItemID
		}
		locked, err := lockItems(ctx, tx.Items, current.ItemID, targetID)
		if err != nil {
			return err
		}
		entry, err = tx.Outbound.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.ItemID != current.ItemID {
			return errMovedConcurrently("salida", id)
		}
		oldItemID = entry.ItemID

		if err := moveIssued(ctx, tx.Items, locked[entry.ItemID], locked[targetID], entry.Quantity, in.Quantity, now); err != nil {
			return err
		}

		entry.ItemID = targetID
		entry.Quantity = in.Quantity
		entry.IssuedAt = issuedAt
		entry.Reason = reason
		entry.UpdatedAt = now
		return tx.Outbound.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "outbound.update").Str("entry_id", entry.ID).
		Str("item_from", oldItemID).Str("item_to", entry.ItemID).Int("quantity", entry.Quantity).Msg("salida actualizada")
	return toOutboundResponse(entry), nil
}

// DeleteOutbound repone la cantidad al artículo y elimina la salida. Siempre es legal.
func (uc *OutboundUseCase) DeleteOutbound(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	now := uc.now()
	var itemID string
	var qty, stockAfter int
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Outbound.GetByID(ctx, id)
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
		entry, err := tx.Outbound.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.ItemID != item.ID {
			return errMovedConcurrently("salida", id)
		}
		if err := writeStock(ctx, tx.Items, item, inventory.Restore(item.StockOnHand, entry.Quantity), now); err != nil {
			return err
		}
		itemID, qty, stockAfter = item.ID, entry.Quantity, item.StockOnHand
		return tx.Outbound.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("op", "outbound.delete").Str("entry_id", id).Str("item_id", itemID).
		Int("delta", qty).Int("stock", stockAfter).Msg("salida revertida")
	return nil
}

// GetOutbound obtiene una salida por ID.
func (uc *OutboundUseCase) GetOutbound(ctx context.Context, id string) (*dto.OutboundResponse, error) {
	entry, err := uc.outbound.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return toOutboundResponse(entry), nil
}

// ListOutbound lista salidas; itemID vacío = todas.
func (uc *OutboundUseCase) ListOutbound(ctx context.Context, itemID string, page dto.PageRequest) (*dto.OutboundListResponse, error) {
	page.DefaultPage()
	list, err := uc.outbound.List(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OutboundResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toOutboundResponse(e))
	}
	return &dto.OutboundListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// moveIssued reajusta el stock de una cantidad ya descontada (salida o préstamo pendiente).
// from y to pueden ser el mismo artículo. Se calculan ambos stocks antes de escribir.
func moveIssued(ctx context.Context, repo repository.ItemRepository, from, to *entity.Item, oldQty, newQty int, now time.Time) error {
	if from.ID == to.ID {
		// delta > 0 = se entrega más; exige stock disponible >= delta
		stock, err := inventory.ApplyDelta(from.StockOnHand, -(newQty - oldQty))
		if err != nil {
			return err
		}
		return writeStock(ctx, repo, from, stock, now)
	}
	restored := inventory.Restore(from.StockOnHand, oldQty)
	issued, err := inventory.Issue(to.StockOnHand, newQty)
	if err != nil {
		return err
	}
	if err := writeStock(ctx, repo, from, restored, now); err != nil {
		return err
	}
	return writeStock(ctx, repo, to, issued, now)
}

// checkOutbound valida la petición y compone el texto del motivo y la fecha.
func checkOutbound(req any, kind, detail, date string) (string, time.Time, error) {
	ve := validation.Check(req)
	var reason string
	if _, bad := ve.Fields["reason_kind"]; !bad {
		var err error
		reason, err = entity.FormatOutboundReason(kind, detail)
		if err != nil {
			ve.Add("reason_detail", "es obligatorio para este motivo")
		}
	}
	if err := ve.OrNil(); err != nil {
		return "", time.Time{}, err
	}
	issuedAt, err := dto.ParseDate(date)
	if err != nil {
		return "", time.Time{}, err
	}
	return reason, issuedAt, nil
}

func toOutboundResponse(e *entity.OutboundEntry) *dto.OutboundResponse {
	return &dto.OutboundResponse{
		ID:        e.ID,
		ItemID:    e.ItemID,
		Quantity:  e.Quantity,
		IssuedAt:  dto.FormatDate(e.IssuedAt),
		Reason:    e.Reason,
		LoanID:    e.LoanID,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
