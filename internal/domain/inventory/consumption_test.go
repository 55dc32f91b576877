package inventory_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearProduct(id string, lines ...entity.CompositionLine) *entity.Product {
	return &entity.Product{ID: id, TenantID: "T1", Name: "Producto " + id, Composition: lines}
}

// Lote de 10 @ 2.00, consumo de 12: egreso de 10, salida asumida de 2 y deuda pendiente 2.
func TestConsume_FaltanteGeneraDeuda(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter)}
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "10", "2.00")}
	product := linearProduct("P1", entity.LinearLine{MaterialID: "M", Quantity: d("12"), Unit: entity.UnitMeter})

	res, err := inventory.Consume(inventory.ConsumptionInput{
		Product: product, Quantity: d("1"), Lots: lots, Materials: materials, At: dayN(2), Reference: "OP-1",
	})
	require.NoError(t, err)

	assert.True(t, res.HasMissingMaterials)
	assertDec(t, "24", res.TotalCost)
	assertDec(t, "24", res.PerUnitCost)

	require.Len(t, res.UpdatedLots, 1)
	assertDec(t, "0", res.UpdatedLots[0].RemainingQuantity)

	require.Len(t, res.NewLedgerEntries, 2)
	egress := res.NewLedgerEntries[0]
	assert.Equal(t, entity.LedgerEgress, egress.Kind)
	assert.Equal(t, "L1", egress.LotID)
	assertDec(t, "10", egress.Quantity)
	assumed := res.NewLedgerEntries[1]
	assert.Equal(t, entity.LedgerAssumedEgress, assumed.Kind)
	assert.Empty(t, assumed.LotID)
	assert.Equal(t, "P1", assumed.ProductID)
	assert.Equal(t, "T1", assumed.TenantID)
	assertDec(t, "2", assumed.Quantity)
	assertDec(t, "2.00", assumed.UnitCost)

	debt := inventory.MaterialDebt("M", res.NewLedgerEntries)
	assertDec(t, "2", debt.PendingQty)
	assertDec(t, "4", debt.FinancialDebt)

	// El llamador conserva sus lotes originales.
	assertDec(t, "10", lots[0].RemainingQuantity)
}

// Después de la deuda, un lote nuevo de 5 @ 3 queda con 3 disponibles.
func TestConsume_LuegoCompensacion(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter)}
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "10", "2.00")}
	product := linearProduct("P1", entity.LinearLine{MaterialID: "M", Quantity: d("12"), Unit: entity.UnitMeter})

	res, err := inventory.Consume(inventory.ConsumptionInput{Product: product, Quantity: d("1"), Lots: lots, Materials: materials, At: dayN(2)})
	require.NoError(t, err)

	created, err := inventory.CreateLot(lot("L2", "M", dayN(3), "5", "3.00"), res.NewLedgerEntries, dayN(3))
	require.NoError(t, err)
	assertDec(t, "3", created.Lot.RemainingQuantity)
	assert.False(t, inventory.ProductHasActiveDebt("P1", append(res.NewLedgerEntries, created.Entries...)))
}

// Dos líneas de la misma materia prima no asignan dos veces el mismo saldo.
func TestConsume_LineasRepetidasCompartenSaldo(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter)}
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "10", "1.00")}
	product := linearProduct("P1",
		entity.LinearLine{MaterialID: "M", Quantity: d("6"), Unit: entity.UnitMeter},
		entity.LinearLine{MaterialID: "M", Quantity: d("6"), Unit: entity.UnitMeter},
	)

	res, err := inventory.Consume(inventory.ConsumptionInput{Product: product, Quantity: d("1"), Lots: lots, Materials: materials, At: dayN(2)})
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assert.False(t, res.Lines[0].Breakdown.HasMissing())
	assertDec(t, "2", res.Lines[1].Breakdown.MissingQuantity)
	require.Len(t, res.UpdatedLots, 1)
	assertDec(t, "0", res.UpdatedLots[0].RemainingQuantity)
}

// Conservación de stock: Σ remanente antes - Σ remanente después == Σ egresos de lote.
func TestConsume_ConservaStock(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter), material("H", entity.UnitKilogram)}
	lots := []entity.MaterialLot{
		lot("L1", "M", dayN(1), "3", "1.00"),
		lot("L2", "M", dayN(2), "8", "1.50"),
		lot("H1", "H", dayN(1), "2", "10.00"),
	}
	product := linearProduct("P1",
		entity.LinearLine{MaterialID: "M", Quantity: d("2.5"), Unit: entity.UnitMeter},
		entity.LinearLine{MaterialID: "H", Quantity: d("100"), Unit: entity.UnitGram},
	)

	res, err := inventory.Consume(inventory.ConsumptionInput{Product: product, Quantity: d("3"), Lots: lots, Materials: materials, At: dayN(3)})
	require.NoError(t, err)
	assert.False(t, res.HasMissingMaterials)

	before := decimal.Zero
	for _, l := range lots {
		before = before.Add(l.RemainingQuantity)
	}
	byID := map[string]entity.MaterialLot{}
	for _, l := range lots {
		byID[l.ID] = l
	}
	for _, l := range res.UpdatedLots {
		byID[l.ID] = l
	}
	after := decimal.Zero
	for _, l := range byID {
		after = after.Add(l.RemainingQuantity)
	}
	egress := decimal.Zero
	for _, e := range res.NewLedgerEntries {
		require.Equal(t, entity.LedgerEgress, e.Kind)
		egress = egress.Add(e.Quantity)
	}
	assert.True(t, before.Sub(after).Equal(egress))
	assertDec(t, "7.8", egress) // 7.5 m + 0.3 kg
}

func TestConsume_Validaciones(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter)}

	_, err := inventory.Consume(inventory.ConsumptionInput{Quantity: d("1"), Materials: materials})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	product := linearProduct("P1", entity.LinearLine{MaterialID: "M", Quantity: d("1"), Unit: entity.UnitMeter})
	_, err = inventory.Consume(inventory.ConsumptionInput{Product: product, Quantity: d("0"), Materials: materials})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	product = linearProduct("P2", entity.LinearLine{MaterialID: "X", Quantity: d("1"), Unit: entity.UnitMeter})
	_, err = inventory.Consume(inventory.ConsumptionInput{Product: product, Quantity: d("1"), Materials: materials})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
