package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductionUseCase(s *memory.Store, inv inventory.ReportInvalidator) *inventory.ProductionUseCase {
	return inventory.NewProductionUseCase(
		memory.NewTxRunner(s),
		memory.NewProductRepository(s),
		memory.NewMaterialRepository(s),
		inv,
		nil,
	)
}

func TestRegisterProduction_ConsumesFIFO(t *testing.T) {
	s := seededStore()
	inv := newCountingInvalidator()
	uc := newProductionUseCase(s, inv)

	resp, err := uc.RegisterProduction(context.Background(), tenant, "user-1", dto.RegisterProductionRequest{
		ProductID: "bolso",
		Quantity:  d("3"),
	})
	require.NoError(t, err)

	decEq(t, "12", resp.TotalCost, "6 m a $2")
	decEq(t, "4", resp.UnitCost, "costo por bolso")
	assert.False(t, resp.HasMissingMaterials)
	assert.Equal(t, "PRODUCCION BOL-01", resp.Reference)
	require.Len(t, resp.Lines, 1)
	require.Len(t, resp.Lines[0].Allocations, 1)
	assert.Equal(t, "lote-1", resp.Lines[0].Allocations[0].LotID)

	lots := s.Lots()
	decEq(t, "4", lots[0].RemainingQuantity, "remanente del lote")

	ledger := s.Ledger()
	assert.Equal(t, []entity.LedgerKind{entity.LedgerIngress, entity.LedgerEgress}, kinds(ledger))
	assert.Equal(t, "bolso", ledger[1].ProductID)

	movements := s.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, "user-1", movements[0].CreatedBy)
	assert.Equal(t, 1, inv.calls[tenant])
}

func TestRegisterProduction_MissingStockBecomesDebt(t *testing.T) {
	s := seededStore()
	uc := newProductionUseCase(s, nil)

	resp, err := uc.RegisterProduction(context.Background(), tenant, "user-1", dto.RegisterProductionRequest{
		ProductID: "bolso",
		Quantity:  d("6"),
		Reference: "OP-77",
	})
	require.NoError(t, err, "la falta de stock nunca bloquea la producción")

	assert.True(t, resp.HasMissingMaterials)
	decEq(t, "24", resp.TotalCost, "10 m a $2 + 2 m faltantes al último costo")
	decEq(t, "2", resp.Lines[0].Missing, "faltante")
	assert.Equal(t, "OP-77", resp.Reference)

	decEq(t, "0", s.Lots()[0].RemainingQuantity, "lote agotado")
	ledger := s.Ledger()
	assert.Equal(t,
		[]entity.LedgerKind{entity.LedgerIngress, entity.LedgerEgress, entity.LedgerAssumedEgress},
		kinds(ledger))
	assert.Empty(t, ledger[2].LotID, "la salida asumida no apunta a ningún lote")
	decEq(t, "2", ledger[2].Quantity, "cantidad asumida")
}

func TestRegisterProduction_Validation(t *testing.T) {
	s := seededStore()
	uc := newProductionUseCase(s, nil)
	ctx := context.Background()

	_, err := uc.RegisterProduction(ctx, tenant, "u", dto.RegisterProductionRequest{ProductID: "bolso", Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterProduction(ctx, tenant, "u", dto.RegisterProductionRequest{ProductID: "no-existe", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterProduction(ctx, "otro-tenant", "u", dto.RegisterProductionRequest{ProductID: "bolso", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un tenant no ve los productos de otro")

	assert.Len(t, s.Ledger(), 1)
	assert.Empty(t, s.Movements())
}

func TestRegisterProduction_RollsBackOnFailure(t *testing.T) {
	s := seededStore()
	uc := inventory.NewProductionUseCase(
		failingTxRunner{inner: memory.NewTxRunner(s)},
		memory.NewProductRepository(s),
		memory.NewMaterialRepository(s),
		nil,
		nil,
	)

	_, err := uc.RegisterProduction(context.Background(), tenant, "u", dto.RegisterProductionRequest{ProductID: "bolso", Quantity: d("6")})
	require.ErrorIs(t, err, errProductionStore)

	decEq(t, "10", s.Lots()[0].RemainingQuantity, "el lote no debe cambiar")
	assert.Len(t, s.Ledger(), 1, "no deben quedar movimientos parciales")
	assert.Empty(t, s.Movements())
}
