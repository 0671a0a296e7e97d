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

// LoanUseCase libro de préstamos. Un préstamo pendiente descuenta su cantidad del stock y queda
// espejado por una salida "Prestado a ..."; al devolverse se repone una sola vez y se registra
// la entrada "Devuelto por ...".
type LoanUseCase struct {
	tx    TxRunner
	loans repository.LoanRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewLoanUseCase construye el caso de uso.
func NewLoanUseCase(tx TxRunner, loans repository.LoanRepository, log *logger.Logger) *LoanUseCase {
	return &LoanUseCase{tx: tx, loans: loans, log: log.Component("loans"), now: time.Now}
}

// CreateLoan descuenta Quantity del artículo, crea el préstamo pendiente y su salida espejo.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, actor entity.Actor, in dto.CreateLoanRequest) (*dto.LoanResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	trimBorrower(&in.Borrower)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	loanDate, err := dto.ParseDate(in.LoanDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	loan := &entity.LoanRecord{
		ID:         uuid.New().String(),
		ItemID:     in.ItemID,
		Borrower:   toBorrower(in.Borrower),
		Quantity:   in.Quantity,
		LoanDate:   loanDate,
		Status:     entity.LoanOutstanding,
		OutboundID: uuid.New().String(),
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
		stock, err := inventory.Issue(item.StockOnHand, in.Quantity)
		if err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, stock, now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand
		if err := tx.Loans.Create(ctx, loan); err != nil {
			return err
		}
		return tx.Outbound.Create(ctx, mirrorOutbound(loan, loan.OutboundID, now))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "loan.create").Str("loan_id", loan.ID).Str("item_id", loan.ItemID).
		Int("delta", -loan.Quantity).Int("stock", stockAfter).Msg("préstamo registrado")
	return toLoanResponse(loan), nil
}

// UpdateLoan edita un préstamo. Pendiente: ajusta el stock (mismo artículo o cambio de artículo)
// y sincroniza la salida espejo. Devuelto: solo admite cambios de prestatario y fecha.
func (uc *LoanUseCase) UpdateLoan(ctx context.Context, actor entity.Actor, id string, in dto.UpdateLoanRequest) (*dto.LoanResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	trimBorrower(&in.Borrower)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	loanDate, err := dto.ParseDate(in.LoanDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var loan *entity.LoanRecord
	var oldItemID string
	var oldQty int
	err = uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Loans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		targetID := in.ItemID
		if targetID == "" {
			targetID = current.ItemID
		}
		locked, err := lockItems(ctx, tx.Items, current.ItemID, targetID)
		if err != nil {
			return err
		}
		loan, err = tx.Loans.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if loan.ItemID != current.ItemID {
			return errMovedConcurrently("préstamo", id)
		}
		oldItemID, oldQty = loan.ItemID, loan.Quantity

		if loan.IsOutstanding() {
			if err := moveIssued(ctx, tx.Items, locked[loan.ItemID], locked[targetID], loan.Quantity, in.Quantity, now); err != nil {
				return err
			}
		} else if targetID != loan.ItemID || in.Quantity != loan.Quantity {
			return domain.ErrLoanAlreadyReturned
		}

		loan.ItemID = targetID
		loan.Quantity = in.Quantity
		loan.Borrower = toBorrower(in.Borrower)
		loan.LoanDate = loanDate
		loan.UpdatedAt = now
		if err := syncMirrors(ctx, tx, loan, now); err != nil {
			return err
		}
		return tx.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "loan.update").Str("loan_id", loan.ID).
		Str("item_from", oldItemID).Str("item_to", loan.ItemID).
		Int("quantity_from", oldQty).Int("quantity_to", loan.Quantity).Msg("préstamo actualizado")
	return toLoanResponse(loan), nil
}

// ReturnLoan marca el préstamo como devuelto, repone la cantidad y registra la entrada espejo.
// Un préstamo ya devuelto responde ErrLoanAlreadyReturned sin efectos.
func (uc *LoanUseCase) ReturnLoan(ctx context.Context, actor entity.Actor, id string) (*dto.LoanResponse, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	now := uc.now()
	var loan *entity.LoanRecord
	var stockAfter int
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Loans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsOutstanding() {
			return domain.ErrLoanAlreadyReturned
		}
		item, err := lockItem(ctx, tx.Items, current.ItemID)
		if err != nil {
			return err
		}
		loan, err = tx.Loans.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if loan.ItemID != item.ID {
			return errMovedConcurrently("préstamo", id)
		}
		// revalidado con la fila bloqueada: una devolución concurrente no repone dos veces
		if err := loan.MarkReturned(now); err != nil {
			return err
		}
		if err := writeStock(ctx, tx.Items, item, inventory.Restore(item.StockOnHand, loan.Quantity), now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand

		source, _ := entity.FormatInboundSource(entity.InboundSourceLoanReturn, loan.Borrower.Name)
		entry := &entity.InboundEntry{
			ID:         uuid.New().String(),
			ItemID:     loan.ItemID,
			Quantity:   loan.Quantity,
			ReceivedAt: truncateDay(now),
			Source:     source,
			LoanID:     loan.ID,
			CreatedBy:  actor.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Inbound.Create(ctx, entry); err != nil {
			return err
		}
		loan.InboundID = entry.ID
		return tx.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "loan.return").Str("loan_id", loan.ID).Str("item_id", loan.ItemID).
		Int("delta", loan.Quantity).Int("stock", stockAfter).Msg("préstamo devuelto")
	return toLoanResponse(loan), nil
}

// DeleteLoan elimina un préstamo. Pendiente: repone la cantidad una sola vez y borra la salida espejo.
// Devuelto: la cantidad ya fue repuesta; se borra el préstamo y los movimientos quedan como historial.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	now := uc.now()
	var itemID string
	var restored, stockAfter int
	err := uc.tx.Run(ctx, func(tx TxRepos) error {
		current, err := tx.Loans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		item, err := lockItem(ctx, tx.Items, current.ItemID)
		if err != nil {
			return err
		}
		loan, err := tx.Loans.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if loan.ItemID != item.ID {
			return errMovedConcurrently("préstamo", id)
		}
		itemID = item.ID

		if !loan.IsOutstanding() {
			if err := tx.Inbound.UnlinkLoan(ctx, loan.ID); err != nil {
				return err
			}
			if err := tx.Outbound.UnlinkLoan(ctx, loan.ID); err != nil {
				return err
			}
			stockAfter = item.StockOnHand
			return tx.Loans.Delete(ctx, loan.ID)
		}

		restored = loan.Quantity
		if err := writeStock(ctx, tx.Items, item, inventory.Restore(item.StockOnHand, loan.Quantity), now); err != nil {
			return err
		}
		stockAfter = item.StockOnHand
		if loan.OutboundID != "" {
			mirror, err := tx.Outbound.GetForUpdate(ctx, loan.OutboundID)
			if err != nil {
				return err
			}
			if mirror != nil {
				if err := tx.Outbound.Delete(ctx, mirror.ID); err != nil {
					return err
				}
			}
		}
		return tx.Loans.Delete(ctx, loan.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("op", "loan.delete").Str("loan_id", id).Str("item_id", itemID).
		Int("delta", restored).Int("stock", stockAfter).Msg("préstamo eliminado")
	return nil
}

// GetLoan obtiene un préstamo por ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*dto.LoanResponse, error) {
	loan, err := uc.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrNotFound
	}
	return toLoanResponse(loan), nil
}

// ListLoans lista préstamos; status vacío = todos.
func (uc *LoanUseCase) ListLoans(ctx context.Context, status string, page dto.PageRequest) (*dto.LoanListResponse, error) {
	var st entity.LoanStatus
	if status != "" {
		var ok bool
		if st, ok = entity.ParseLoanStatus(status); !ok {
			ve := domain.NewValidationError()
			ve.Add("status", "debe ser uno de: outstanding returned")
			return nil, ve
		}
	}
	page.DefaultPage()
	list, err := uc.loans.List(ctx, st, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoanResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLoanResponse(l))
	}
	return &dto.LoanListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// syncMirrors mantiene los movimientos espejo alineados con el préstamo (artículo, cantidad, textos).
// El stock ya fue ajustado por el llamador.
func syncMirrors(ctx context.Context, tx TxRepos, loan *entity.LoanRecord, now time.Time) error {
	mirror, err := tx.Outbound.GetForUpdate(ctx, loan.OutboundID)
	if err != nil {
		return err
	}
	if mirror == nil {
		// la salida espejo se perdió: se recrea para que el historial vuelva a cuadrar
		loan.OutboundID = uuid.New().String()
		return tx.Outbound.Create(ctx, mirrorOutbound(loan, loan.OutboundID, now))
	}
	reason, _ := entity.FormatOutboundReason(entity.OutboundReasonLoanedTo, loan.Borrower.Label())
	mirror.ItemID = loan.ItemID
	mirror.Quantity = loan.Quantity
	mirror.IssuedAt = loan.LoanDate
	mirror.Reason = reason
	mirror.UpdatedAt = now
	if err := tx.Outbound.Update(ctx, mirror); err != nil {
		return err
	}

	if loan.InboundID == "" {
		return nil
	}
	ret, err := tx.Inbound.GetForUpdate(ctx, loan.InboundID)
	if err != nil || ret == nil {
		return err
	}
	ret.Source, _ = entity.FormatInboundSource(entity.InboundSourceLoanReturn, loan.Borrower.Name)
	ret.UpdatedAt = now
	return tx.Inbound.Update(ctx, ret)
}

func mirrorOutbound(loan *entity.LoanRecord, id string, now time.Time) *entity.OutboundEntry {
	reason, _ := entity.FormatOutboundReason(entity.OutboundReasonLoanedTo, loan.Borrower.Label())
	return &entity.OutboundEntry{
		ID:        id,
		ItemID:    loan.ItemID,
		Quantity:  loan.Quantity,
		IssuedAt:  loan.LoanDate,
		Reason:    reason,
		LoanID:    loan.ID,
		CreatedBy: loan.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func trimBorrower(b *dto.BorrowerDTO) {
	b.IDNumber = strings.TrimSpace(b.IDNumber)
	b.Name = strings.TrimSpace(b.Name)
	b.Category = strings.TrimSpace(b.Category)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Address = strings.TrimSpace(b.Address)
}

func toBorrower(b dto.BorrowerDTO) entity.Borrower {
	return entity.Borrower{IDNumber: b.IDNumber, Name: b.Name, Category: b.Category, Phone: b.Phone, Address: b.Address}
}

func toLoanResponse(l *entity.LoanRecord) *dto.LoanResponse {
	return &dto.LoanResponse{
		ID:     l.ID,
		ItemID: l.ItemID,
		Borrower: dto.BorrowerDTO{
			IDNumber: l.Borrower.IDNumber,
			Name:     l.Borrower.Name,
			Category: l.Borrower.Category,
			Phone:    l.Borrower.Phone,
			Address:  l.Borrower.Address,
		},
		Quantity:   l.Quantity,
		LoanDate:   dto.FormatDate(l.LoanDate),
		Status:     string(l.Status),
		OutboundID: l.OutboundID,
		InboundID:  l.InboundID,
		ReturnedAt: l.ReturnedAt,
		CreatedBy:  l.CreatedBy,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
