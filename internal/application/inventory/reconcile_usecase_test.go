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

func TestReconcile_RoundTripThroughLedger(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	a := l.item(t, "Air mineral", 24)
	b := l.item(t, "Mi instan", 40)

	l.consume(t, a, 6)
	loan := l.lend(t, b, 10)
	_, err := l.inbound.CreateInbound(ctx, staff, dto.CreateInboundRequest{
		ItemID: a, Quantity: 12, ReceivedAt: "2024-03-03", SourceKind: entity.InboundSourcePurchase,
	})
	require.NoError(t, err)
	_, err = l.loans.ReturnLoan(ctx, staff, loan.ID)
	require.NoError(t, err)

	report, err := l.reconcile.ReconcileAll(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.True(t, report.Consistent)
	assert.Empty(t, report.Drifted)

	item, err := l.reconcile.ReconcileItem(ctx, admin, b)
	require.NoError(t, err)
	assert.Equal(t, 50, item.InboundTotal)
	assert.Equal(t, 10, item.OutboundTotal)
	assert.Equal(t, 40, item.StoredStock)
	assert.Zero(t, item.Delta)
}

func TestReconcile_ReportsDrift(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	id := l.item(t, "Gula", 10)
	_, err := l.catalog.UpdateItem(ctx, admin, id, dto.UpdateItemRequest{
		Name: "Gula", StockOnHand: 7, UnitOfMeasure: "kg", StockCategory: entity.StockCategoryMonthly,
	})
	require.NoError(t, err)

	report, err := l.reconcile.ReconcileAll(ctx, admin)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, id, report.Drifted[0].ItemID)
	assert.Equal(t, 10, report.Drifted[0].ExpectedStock)
	assert.Equal(t, -3, report.Drifted[0].Delta)
}

func TestReconcile_AdminOnly(t *testing.T) {
	l := newLedger()
	id := l.item(t, "Kopi", 1)

	_, err := l.reconcile.ReconcileAll(context.Background(), staff)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = l.reconcile.ReconcileItem(context.Background(), staff, id)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = l.reconcile.ReconcileItem(context.Background(), admin, "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// La conciliación de un artículo solo suma su propio historial.
func TestReconcileItem_IgnoresOtherItems(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	a := l.item(t, "Beras", 30)
	b := l.item(t, "Minyak", 5)
	l.consume(t, a, 4)
	_, err := l.catalog.UpdateItem(ctx, admin, a, dto.UpdateItemRequest{
		Name: "Beras", StockOnHand: 20, UnitOfMeasure: "kg", StockCategory: entity.StockCategoryRegular,
	})
	require.NoError(t, err)

	res, err := l.reconcile.ReconcileItem(ctx, admin, b)
	require.NoError(t, err)
	assert.Equal(t, 5, res.InboundTotal)
	assert.Zero(t, res.OutboundTotal)
	assert.Zero(t, res.Delta)

	res, err = l.reconcile.ReconcileItem(ctx, admin, a)
	require.NoError(t, err)
	assert.Equal(t, 30, res.InboundTotal)
	assert.Equal(t, 4, res.OutboundTotal)
	assert.Equal(t, 26, res.ExpectedStock)
	assert.Equal(t, -6, res.Delta)
}
