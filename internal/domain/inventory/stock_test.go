package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	got, err := inventory.ApplyDelta(10, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	got, err = inventory.ApplyDelta(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	got, err = inventory.ApplyDelta(3, -4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, got, "ante error el stock no cambia")
}

func TestIssue_ExactoDejaCero(t *testing.T) {
	got, err := inventory.Issue(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = inventory.Issue(0, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReverseInbound(t *testing.T) {
	got, err := inventory.ReverseInbound(7, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = inventory.ReverseInbound(2, 3)
	assert.ErrorIs(t, err, domain.ErrReversalExceedsStock)
	assert.True(t, domain.IsConflict(err))
}

func TestDrift(t *testing.T) {
	d := inventory.Drift{StoredStock: 6, InboundTotal: 10, OutboundTotal: 4}
	assert.True(t, d.Consistent())

	d.StoredStock = 9
	assert.Equal(t, 3, d.Delta())
	assert.False(t, d.Consistent())
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "kertas a4", inventory.NameKey("  Kertas   A4 "))
	assert.Equal(t, inventory.NameKey("STRASSE"), inventory.NameKey("strasse"))
	// "é" precompuesta y descompuesta producen la misma clave
	assert.Equal(t, inventory.NameKey("caf\u00e9"), inventory.NameKey("cafe\u0301"))
}
