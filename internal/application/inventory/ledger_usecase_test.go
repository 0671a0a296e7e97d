package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestCreateItem_SeedsInitialStockEntry(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Lakban", 12)

	assert.Equal(t, 12, l.stock(t, id))
	list, err := l.inbound.ListInbound(ctx, id, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 12, list.Items[0].Quantity)
	assert.Equal(t, "Stock inicial", list.Items[0].Source)
	l.requireConsistent(t)
}

func TestCreateItem_ZeroStockHasNoEntry(t *testing.T) {
	l := newLedger()
	id := l.item(t, "Spidol", 0)

	list, err := l.inbound.ListInbound(context.Background(), id, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateItem_Validation(t *testing.T) {
	l := newLedger()
	_, err := l.catalog.CreateItem(context.Background(), staff, dto.CreateItemRequest{
		Name:          "  ",
		InitialStock:  -1,
		StockCategory: entity.StockCategoryRegular,
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "initial_stock")
	assert.Contains(t, ve.Fields, "unit_of_measure")
}

func TestCreateItem_DuplicateNameIgnoresCase(t *testing.T) {
	l := newLedger()
	l.item(t, "Kertas A4", 1)

	_, err := l.catalog.CreateItem(context.Background(), staff, dto.CreateItemRequest{
		Name:          "  kertas a4 ",
		UnitOfMeasure: "rim",
		StockCategory: entity.StockCategoryMonthly,
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, domain.IsConflict(err))

	list, err := l.catalog.ListItems(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestUpdateItem_ManualCorrectionIsAdminOnly(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Map", 4)
	req := dto.UpdateItemRequest{Name: "Map biru", StockOnHand: 9, UnitOfMeasure: "pcs", StockCategory: entity.StockCategoryRegular}

	_, err := l.catalog.UpdateItem(ctx, staff, id, req)
	require.ErrorIs(t, err, domain.ErrForbidden)

	res, err := l.catalog.UpdateItem(ctx, admin, id, req)
	require.NoError(t, err)
	assert.Equal(t, 9, res.StockOnHand)
	assert.Equal(t, "Map biru", res.Name)

	// la corrección manual queda fuera del libro y la conciliación lo detecta
	item, err := l.reconcile.ReconcileItem(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, 4, item.ExpectedStock)
	assert.Equal(t, 5, item.Delta)
}

func TestUpdateItem_NotFound(t *testing.T) {
	l := newLedger()
	_, err := l.catalog.UpdateItem(context.Background(), admin, "8f0f8d54-1c4b-4a57-9d4e-5c1e2b3a4d5f", dto.UpdateItemRequest{
		Name: "x", UnitOfMeasure: "pcs", StockCategory: entity.StockCategoryRegular,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItem_RemovesHistory(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Gunting", 5)
	l.consume(t, id, 1)
	l.lend(t, id, 2)

	require.ErrorIs(t, l.catalog.DeleteItem(ctx, staff, id), domain.ErrForbidden)
	require.NoError(t, l.catalog.DeleteItem(ctx, admin, id))

	_, err := l.catalog.GetItem(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	in, err := l.inbound.ListInbound(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, in.Items)
	out, err := l.outbound.ListOutbound(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	loans, err := l.loans.ListLoans(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, loans.Items)

	require.ErrorIs(t, l.catalog.DeleteItem(ctx, admin, id), domain.ErrNotFound)
}

func TestInbound_CreateUpdateDelete(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Baterai AA", 0)

	entry, err := l.inbound.CreateInbound(ctx, staff, dto.CreateInboundRequest{
		ItemID: id, Quantity: 10, ReceivedAt: "2024-02-01", SourceKind: entity.InboundSourceGift, SourceDetail: "Dinas Sosial",
	})
	require.NoError(t, err)
	assert.Equal(t, "Donación: Dinas Sosial", entry.Source)
	assert.Equal(t, 10, l.stock(t, id))

	_, err = l.inbound.UpdateInbound(ctx, staff, entry.ID, dto.UpdateInboundRequest{
		Quantity: 7, ReceivedAt: "2024-02-02", SourceKind: entity.InboundSourcePurchase,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, l.stock(t, id))

	require.ErrorIs(t, l.inbound.DeleteInbound(ctx, staff, entry.ID), domain.ErrForbidden)
	require.NoError(t, l.inbound.DeleteInbound(ctx, admin, entry.ID))
	assert.Equal(t, 0, l.stock(t, id))

	_, err = l.inbound.GetInbound(ctx, entry.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	l.requireConsistent(t)
}

func TestInbound_DetailRequiredForGift(t *testing.T) {
	l := newLedger()
	id := l.item(t, "Sabun", 0)

	_, err := l.inbound.CreateInbound(context.Background(), staff, dto.CreateInboundRequest{
		ItemID: id, Quantity: 1, ReceivedAt: "2024-02-01", SourceKind: entity.InboundSourceGift,
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "source_detail")
	assert.Equal(t, 0, l.stock(t, id))
}

// El piso de stock se aplica también al editar una entrada: si la reducción dejaría el
// artículo en negativo la edición se rechaza sin efectos.
func TestUpdateInbound_StrictFloorRejectsNegativeStock(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Masker", 0)
	entry, err := l.inbound.CreateInbound(ctx, staff, dto.CreateInboundRequest{
		ItemID: id, Quantity: 10, ReceivedAt: "2024-02-01", SourceKind: entity.InboundSourcePurchase,
	})
	require.NoError(t, err)
	l.consume(t, id, 8)

	_, err = l.inbound.UpdateInbound(ctx, staff, entry.ID, dto.UpdateInboundRequest{
		Quantity: 5, ReceivedAt: "2024-02-01", SourceKind: entity.InboundSourcePurchase,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, l.stock(t, id))

	got, err := l.inbound.GetInbound(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	l.requireConsistent(t)
}

func TestDeleteInbound_ReversalExceedsStock(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Sarung tangan", 0)
	entry, err := l.inbound.CreateInbound(ctx, staff, dto.CreateInboundRequest{
		ItemID: id, Quantity: 4, ReceivedAt: "2024-02-01", SourceKind: entity.InboundSourcePurchase,
	})
	require.NoError(t, err)
	l.consume(t, id, 3)

	err = l.inbound.DeleteInbound(ctx, admin, entry.ID)
	require.ErrorIs(t, err, domain.ErrReversalExceedsStock)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, 1, l.stock(t, id))
}

// Escenario A: salida y borrado de la salida devuelven el stock original.
func TestOutbound_CreateThenDeleteRestores(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	x := l.item(t, "X", 10)

	entryID := l.consume(t, x, 4)
	assert.Equal(t, 6, l.stock(t, x))

	require.NoError(t, l.outbound.DeleteOutbound(ctx, admin, entryID))
	assert.Equal(t, 10, l.stock(t, x))
	l.requireConsistent(t)
}

func TestCreateOutbound_InsufficientStock(t *testing.T) {
	l := newLedger()
	id := l.item(t, "Pulpen", 2)

	_, err := l.outbound.CreateOutbound(context.Background(), staff, dto.CreateOutboundRequest{
		ItemID: id, Quantity: 3, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonDamaged,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, l.stock(t, id))

	out, err := l.outbound.ListOutbound(context.Background(), id, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestUpdateOutbound_SameItemDelta(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Tinta", 10)
	entryID := l.consume(t, id, 4)

	res, err := l.outbound.UpdateOutbound(ctx, staff, entryID, dto.UpdateOutboundRequest{
		Quantity: 9, IssuedAt: "2024-03-05", ReasonKind: entity.OutboundReasonGivenTo, ReasonDetail: "Posyandu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Entregado a Posyandu", res.Reason)
	assert.Equal(t, 1, l.stock(t, id))

	_, err = l.outbound.UpdateOutbound(ctx, staff, entryID, dto.UpdateOutboundRequest{
		Quantity: 12, IssuedAt: "2024-03-05", ReasonKind: entity.OutboundReasonConsumed,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, l.stock(t, id))
	l.requireConsistent(t)
}

// Escenario D: mover una salida a otro artículo repone el original y descuenta el nuevo.
func TestUpdateOutbound_ChangeItem(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	a := l.item(t, "A", 10)
	b := l.item(t, "B", 5)
	entryID := l.consume(t, a, 3)

	res, err := l.outbound.UpdateOutbound(ctx, staff, entryID, dto.UpdateOutboundRequest{
		ItemID: b, Quantity: 3, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonConsumed,
	})
	require.NoError(t, err)
	assert.Equal(t, b, res.ItemID)
	assert.Equal(t, 10, l.stock(t, a))
	assert.Equal(t, 2, l.stock(t, b))
	l.requireConsistent(t)
}

// Escenario D, rama de fallo: sin stock en el destino ningún artículo cambia.
func TestUpdateOutbound_ChangeItemIsAtomic(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	a := l.item(t, "A", 10)
	b := l.item(t, "B", 2)
	entryID := l.consume(t, a, 3)

	_, err := l.outbound.UpdateOutbound(ctx, staff, entryID, dto.UpdateOutboundRequest{
		ItemID: b, Quantity: 3, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonConsumed,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 7, l.stock(t, a))
	assert.Equal(t, 2, l.stock(t, b))

	got, err := l.outbound.GetOutbound(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, a, got.ItemID)
	l.requireConsistent(t)
}

func TestUpdateOutbound_UnknownTargetItem(t *testing.T) {
	l := newLedger()
	a := l.item(t, "A", 10)
	entryID := l.consume(t, a, 3)

	_, err := l.outbound.UpdateOutbound(context.Background(), staff, entryID, dto.UpdateOutboundRequest{
		ItemID: "0b5e2f3c-7a1d-4c4e-9f6b-2d8e1a3c5b7d", Quantity: 3, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonConsumed,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 7, l.stock(t, a))
}

func TestMutations_RequireAuthenticatedActor(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Kabel", 3)

	_, err := l.outbound.CreateOutbound(ctx, entity.Actor{}, dto.CreateOutboundRequest{
		ItemID: id, Quantity: 1, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonConsumed,
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = l.loans.CreateLoan(ctx, entity.Actor{UserID: "x", Role: "guest"}, loanRequest(id, 1))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 3, l.stock(t, id))
}

func TestStaffCannotDeleteLedgerRows(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Obeng", 5)
	outID := l.consume(t, id, 1)
	loan := l.lend(t, id, 1)

	require.ErrorIs(t, l.outbound.DeleteOutbound(ctx, staff, outID), domain.ErrForbidden)
	require.ErrorIs(t, l.loans.DeleteLoan(ctx, staff, loan.ID), domain.ErrForbidden)
	assert.Equal(t, 3, l.stock(t, id))
}

// Propiedad: ninguna secuencia de operaciones deja stock negativo y el libro siempre cuadra.
func TestLedger_StockNeverNegative(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Lampu", 3)

	for i := 0; i < 5; i++ {
		_, _ = l.outbound.CreateOutbound(ctx, staff, dto.CreateOutboundRequest{
			ItemID: id, Quantity: 2, IssuedAt: "2024-03-01", ReasonKind: entity.OutboundReasonConsumed,
		})
		_, _ = l.loans.CreateLoan(ctx, staff, loanRequest(id, 1))
		assert.GreaterOrEqual(t, l.stock(t, id), 0)
	}
	assert.Equal(t, 0, l.stock(t, id))
	l.requireConsistent(t)
}
