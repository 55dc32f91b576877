package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotFunc func(ctx context.Context, tenantID string) (entity.Snapshot, error)

func (f snapshotFunc) LoadSnapshot(ctx context.Context, tenantID string) (entity.Snapshot, error) {
	return f(ctx, tenantID)
}

func replenishmentSnapshot() entity.Snapshot {
	mid := day0.AddDate(0, 0, 10)
	return entity.Snapshot{
		Now: day0.AddDate(0, 0, 30),
		Materials: []entity.RawMaterial{
			{ID: "tela", Name: "Tela", Unit: entity.UnitMeter, Status: entity.MaterialStatusActive},
			{ID: "hilo", Name: "Hilo", Unit: entity.UnitPiece, Status: entity.MaterialStatusActive},
			{ID: "boton", Name: "Botón", Unit: entity.UnitPiece, Status: entity.MaterialStatusActive},
			{ID: "viejo", Name: "Descontinuado", Unit: entity.UnitPiece, Status: entity.MaterialStatusInactive},
		},
		Lots: []entity.MaterialLot{
			{ID: "t1", MaterialID: "tela", Date: day0, InitialQuantity: d("35"), RemainingQuantity: d("5"), UnitCost: d("2")},
			{ID: "b1", MaterialID: "boton", Date: day0, InitialQuantity: d("103"), RemainingQuantity: d("100"), UnitCost: d("0.1")},
		},
		Ledger: []entity.LedgerEntry{
			{MaterialID: "tela", Kind: entity.LedgerEgress, Quantity: d("30"), UnitCost: d("2"), Date: mid},
			{MaterialID: "hilo", Kind: entity.LedgerAssumedEgress, Quantity: d("3"), UnitCost: d("0"), Date: mid},
			{MaterialID: "boton", Kind: entity.LedgerEgress, Quantity: d("3"), UnitCost: d("0.1"), Date: mid},
			{MaterialID: "viejo", Kind: entity.LedgerAssumedEgress, Quantity: d("4"), UnitCost: d("1"), Date: mid},
		},
	}
}

func TestReplenishment(t *testing.T) {
	list := inventory.Replenishment(replenishmentSnapshot())
	require.Len(t, list, 2, "botón tiene cobertura y el material inactivo se omite")

	tela := list[0]
	assert.Equal(t, "tela", tela.MaterialID)
	assert.Equal(t, 1, tela.Priority)
	decEq(t, "1", tela.DailyConsumption, "30 m en 30 días")
	decEq(t, "14", tela.IdealStock, "14 días de cobertura")
	decEq(t, "9", tela.SuggestedOrderQty, "14 - 5")
	decEq(t, "18", tela.EstimatedOrderCost, "9 * $2")
	require.NotNil(t, tela.DaysUntilBreak)
	decEq(t, "5", *tela.DaysUntilBreak, "días hasta quiebre")

	hilo := list[1]
	assert.Equal(t, "hilo", hilo.MaterialID)
	assert.Equal(t, 2, hilo.Priority)
	assert.Nil(t, hilo.DaysUntilBreak, "sin consumo no hay fecha de quiebre")
	decEq(t, "3", hilo.PendingDebt, "deuda pendiente")
	decEq(t, "3", hilo.SuggestedOrderQty, "saldar la deuda")
}

func TestGenerateReplenishmentList_UsesLoader(t *testing.T) {
	var gotTenant string
	uc := inventory.NewReplenishmentUseCase(snapshotFunc(func(_ context.Context, tenantID string) (entity.Snapshot, error) {
		gotTenant = tenantID
		return replenishmentSnapshot(), nil
	}))

	list, err := uc.GenerateReplenishmentList(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, tenant, gotTenant)
	assert.Len(t, list, 2)
}
