package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var (
	admin = entity.Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: entity.RoleAdmin}
	staff = entity.Actor{UserID: "22222222-2222-2222-2222-222222222222", Role: entity.RoleStaff}
)

type ledger struct {
	store     *memory.Store
	catalog   *inventory.CatalogUseCase
	inbound   *inventory.InboundUseCase
	outbound  *inventory.OutboundUseCase
	loans     *inventory.LoanUseCase
	reconcile *inventory.ReconcileUseCase
}

func newLedger() *ledger {
	s := memory.NewStore()
	log := logger.Nop()
	return &ledger{
		store:     s,
		catalog:   inventory.NewCatalogUseCase(s, s.Items(), log),
		inbound:   inventory.NewInboundUseCase(s, s.Inbound(), log),
		outbound:  inventory.NewOutboundUseCase(s, s.Outbound(), log),
		loans:     inventory.NewLoanUseCase(s, s.Loans(), log),
		reconcile: inventory.NewReconcileUseCase(s, log),
	}
}

func (l *ledger) item(t *testing.T, name string, stock int) string {
	t.Helper()
	res, err := l.catalog.CreateItem(context.Background(), staff, dto.CreateItemRequest{
		Name:          name,
		InitialStock:  stock,
		UnitOfMeasure: "pcs",
		StockCategory: entity.StockCategoryRegular,
	})
	require.NoError(t, err)
	return res.ID
}

func (l *ledger) stock(t *testing.T, itemID string) int {
	t.Helper()
	res, err := l.catalog.GetItem(context.Background(), itemID)
	require.NoError(t, err)
	return res.StockOnHand
}

func (l *ledger) consume(t *testing.T, itemID string, qty int) string {
	t.Helper()
	res, err := l.outbound.CreateOutbound(context.Background(), staff, dto.CreateOutboundRequest{
		ItemID:     itemID,
		Quantity:   qty,
		IssuedAt:   "2024-03-01",
		ReasonKind: entity.OutboundReasonConsumed,
	})
	require.NoError(t, err)
	return res.ID
}

func (l *ledger) lend(t *testing.T, itemID string, qty int) *dto.LoanResponse {
	t.Helper()
	res, err := l.loans.CreateLoan(context.Background(), staff, loanRequest(itemID, qty))
	require.NoError(t, err)
	return res
}

// requireConsistent verifica que el stock de todo el catálogo coincide con el historial.
func (l *ledger) requireConsistent(t *testing.T) {
	t.Helper()
	report, err := l.reconcile.ReconcileAll(context.Background(), admin)
	require.NoError(t, err)
	require.True(t, report.Consistent, "deriva: %+v", report.Drifted)
}

func borrower() dto.BorrowerDTO {
	return dto.BorrowerDTO{
		IDNumber: "3201234567890001",
		Name:     "Budi Santoso",
		Category: entity.BorrowerCitizen,
		Phone:    "081234567890",
		Address:  "Jl. Merdeka 10",
	}
}

func loanRequest(itemID string, qty int) dto.CreateLoanRequest {
	return dto.CreateLoanRequest{
		Borrower: borrower(),
		ItemID:   itemID,
		Quantity: qty,
		LoanDate: "2024-03-02",
	}
}
