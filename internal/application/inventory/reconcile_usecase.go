package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const reconcileBatch = 500

// ReconcileUseCase recalcula el stock desde el historial (entradas - salidas) y reporta la deriva.
// Solo lectura: nunca corrige el stock almacenado.
type ReconcileUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(tx TxRunner, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{tx: tx, log: log.Component("reconcile")}
}

// ReconcileItem concilia un artículo.
func (uc *ReconcileUseCase) ReconcileItem(ctx context.Context, actor entity.Actor, itemID string) (*dto.ReconciliationItemDTO, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	var drift inventory.Drift
	err := uc.tx.Snapshot(ctx, func(tx TxRepos) error {
		item, err := tx.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		in, err := tx.Inbound.TotalForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		out, err := tx.Outbound.TotalForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		drift = driftOf(item, map[string]int{item.ID: in}, map[string]int{item.ID: out})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !drift.Consistent() {
		uc.log.Warn().Str("item_id", drift.ItemID).Int("delta", drift.Delta()).Msg("stock inconsistente con el historial")
	}
	res := toReconciliationDTO(drift)
	return &res, nil
}

// ReconcileAll concilia todo el catálogo en una sola lectura consistente.
func (uc *ReconcileUseCase) ReconcileAll(ctx context.Context, actor entity.Actor) (*dto.ReconciliationReportDTO, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	report := &dto.ReconciliationReportDTO{Drifted: []dto.ReconciliationItemDTO{}}
	err := uc.tx.Snapshot(ctx, func(tx TxRepos) error {
		in, out, err := ledgerTotals(ctx, tx)
		if err != nil {
			return err
		}
		for offset := 0; ; offset += reconcileBatch {
			items, err := tx.Items.List(ctx, reconcileBatch, offset)
			if err != nil {
				return err
			}
			for _, item := range items {
				report.Checked++
				if d := driftOf(item, in, out); !d.Consistent() {
					report.Drifted = append(report.Drifted, toReconciliationDTO(d))
				}
			}
			if len(items) < reconcileBatch {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	report.Consistent = len(report.Drifted) == 0
	if !report.Consistent {
		uc.log.Warn().Int("checked", report.Checked).Int("drifted", len(report.Drifted)).Msg("conciliación con deriva")
	}
	return report, nil
}

func ledgerTotals(ctx context.Context, tx TxRepos) (map[string]int, map[string]int, error) {
	in, err := tx.Inbound.TotalsByItem(ctx)
	if err != nil {
		return nil, nil, err
	}
	out, err := tx.Outbound.TotalsByItem(ctx)
	if err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

func driftOf(item *entity.Item, in, out map[string]int) inventory.Drift {
	return inventory.Drift{
		ItemID:        item.ID,
		ItemName:      item.Name,
		StoredStock:   item.StockOnHand,
		InboundTotal:  in[item.ID],
		OutboundTotal: out[item.ID],
	}
}

func toReconciliationDTO(d inventory.Drift) dto.ReconciliationItemDTO {
	return dto.ReconciliationItemDTO{
		ItemID:        d.ItemID,
		ItemName:      d.ItemName,
		StoredStock:   d.StoredStock,
		InboundTotal:  d.InboundTotal,
		OutboundTotal: d.OutboundTotal,
		ExpectedStock: d.ExpectedStock(),
		Delta:         d.Delta(),
	}
}
