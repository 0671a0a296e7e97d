package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func TestUnits_CreateListDelete(t *testing.T) {
	store := memory.NewStore()
	uc := NewUnitUseCase(store.Units(), store.Items(), logger.Nop())
	ctx := context.Background()

	pcs, err := uc.Create(ctx, staff, dto.CreateUnitRequest{Name: "pcs"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, staff, dto.CreateUnitRequest{Name: "box"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, staff, dto.CreateUnitRequest{Name: " PCS "})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "box", list[0].Name)

	require.ErrorIs(t, uc.Delete(ctx, staff, pcs.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, admin, pcs.ID))
	require.ErrorIs(t, uc.Delete(ctx, admin, pcs.ID), domain.ErrNotFound)
}

func TestUnits_DeleteInUse(t *testing.T) {
	store := memory.NewStore()
	uc := NewUnitUseCase(store.Units(), store.Items(), logger.Nop())
	ctx := context.Background()

	rim, err := uc.Create(ctx, staff, dto.CreateUnitRequest{Name: "rim"})
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "i1", Name: "Kertas", NameKey: "kertas", UnitOfMeasure: "rim",
		StockCategory: entity.StockCategoryRegular, CreatedAt: now, UpdatedAt: now,
	}))

	err = uc.Delete(ctx, admin, rim.ID)
	require.ErrorIs(t, err, domain.ErrUnitInUse)
	assert.True(t, domain.IsConflict(err))
}
