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

// Dos lotes A (antiguo, 5) y B (reciente, 5): pedir 7 asigna 5 de A y 2 de B, nunca al revés.
func TestBreakdown_ConsumeDelMasAntiguoPrimero(t *testing.T) {
	m := material("M", entity.UnitMeter)
	// B se inserta primero para verificar que manda la fecha y no el orden del slice.
	lots := []entity.MaterialLot{
		lot("B", "M", dayN(5), "5", "3.00"),
		lot("A", "M", dayN(1), "5", "2.00"),
	}

	b := inventory.Breakdown(m, d("7"), entity.UnitMeter, lots)

	require.Len(t, b.Allocations, 2)
	assert.Equal(t, "A", b.Allocations[0].LotID)
	assertDec(t, "5", b.Allocations[0].QuantityNative)
	assert.Equal(t, "B", b.Allocations[1].LotID)
	assertDec(t, "2", b.Allocations[1].QuantityNative)
	assertDec(t, "16", b.Total) // 5*2 + 2*3
	assert.False(t, b.HasMissing())
}

// Con la misma fecha desempata el orden de inserción (orden estable).
func TestBreakdown_EmpateDeFechaRespetaInsercion(t *testing.T) {
	m := material("M", entity.UnitMeter)
	lots := []entity.MaterialLot{
		lot("primero", "M", dayN(1), "4", "1.00"),
		lot("segundo", "M", dayN(1), "4", "9.00"),
	}
	b := inventory.Breakdown(m, d("5"), entity.UnitMeter, lots)
	require.Len(t, b.Allocations, 2)
	assert.Equal(t, "primero", b.Allocations[0].LotID)
	assert.Equal(t, "segundo", b.Allocations[1].LotID)
}

// Conservación: con stock suficiente, Σ cantidades == requerido y Σ subtotales == FIFOCost.
func TestBreakdown_ConservacionConStockSuficiente(t *testing.T) {
	m := material("M", entity.UnitMeter)
	lots := []entity.MaterialLot{
		lot("L1", "M", dayN(1), "3", "1.10"),
		lot("L2", "M", dayN(2), "4", "1.25"),
		lot("L3", "M", dayN(3), "10", "1.40"),
	}
	for _, req := range []string{"0.5", "3", "6.75", "17"} {
		b := inventory.Breakdown(m, d(req), entity.UnitMeter, lots)
		qty := decimal.Zero
		sub := decimal.Zero
		for _, a := range b.Allocations {
			assert.False(t, a.IsMissing)
			qty = qty.Add(a.QuantityNative)
			sub = sub.Add(a.Subtotal)
		}
		assertDec(t, req, qty, "requerido %s", req)
		assert.True(t, sub.Equal(inventory.FIFOCost(m, d(req), entity.UnitMeter, lots)))
	}
}

// Un lote de 10 @ 2.00 y un consumo de 12: [{lote,10,20.00},{faltante,2,2.00,4.00}].
func TestBreakdown_FaltanteUsaCostoDelUltimoLote(t *testing.T) {
	m := material("M", entity.UnitMeter)
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "10", "2.00")}

	b := inventory.Breakdown(m, d("12"), entity.UnitMeter, lots)

	require.Len(t, b.Allocations, 2)
	assert.Equal(t, "L1", b.Allocations[0].LotID)
	assertDec(t, "10", b.Allocations[0].QuantityNative)
	assertDec(t, "20.00", b.Allocations[0].Subtotal)

	missing := b.Allocations[1]
	assert.True(t, missing.IsMissing)
	assert.Empty(t, missing.LotID)
	assertDec(t, "2", missing.QuantityNative)
	assertDec(t, "2.00", missing.UnitCost)
	assertDec(t, "4.00", missing.Subtotal)
	assertDec(t, "2", b.MissingQuantity)
	assertDec(t, "24", b.Total)
}

// Materia prima agotada: el faltante se valora con el lote más reciente aunque esté en cero.
func TestBreakdown_AgotadoConservaSenalDeCosto(t *testing.T) {
	m := material("M", entity.UnitMeter)
	viejo := lot("L1", "M", dayN(1), "10", "2.00")
	viejo.RemainingQuantity = decimal.Zero
	reciente := lot("L2", "M", dayN(9), "5", "2.60")
	reciente.RemainingQuantity = decimal.Zero

	b := inventory.Breakdown(m, d("3"), entity.UnitMeter, []entity.MaterialLot{reciente, viejo})

	require.Len(t, b.Allocations, 1)
	assert.True(t, b.Allocations[0].IsMissing)
	assertDec(t, "2.60", b.Allocations[0].UnitCost)
	assertDec(t, "7.80", b.Total)
}

func TestBreakdown_SinLotesPrecioCero(t *testing.T) {
	m := material("M", entity.UnitMeter)
	otro := lot("X", "OTRO", dayN(1), "10", "5.00")
	b := inventory.Breakdown(m, d("4"), entity.UnitMeter, []entity.MaterialLot{otro})
	require.Len(t, b.Allocations, 1)
	assert.True(t, b.Allocations[0].IsMissing)
	assertDec(t, "0", b.Total)
}

// El requerimiento en cm se convierte a la unidad nativa (m) y se reporta en ambas.
func TestBreakdown_ConvierteUnidadObjetivo(t *testing.T) {
	m := material("M", entity.UnitMeter)
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "2", "10.00")}

	b := inventory.Breakdown(m, d("150"), entity.UnitCentimeter, lots)

	require.Len(t, b.Allocations, 1)
	assertDec(t, "1.5", b.Allocations[0].QuantityNative)
	assertDec(t, "150", b.Allocations[0].QuantityTarget)
	assertDec(t, "15", b.Total)
}

// Breakdown es pura: los lotes de entrada no cambian.
func TestBreakdown_NoMutaLotes(t *testing.T) {
	m := material("M", entity.UnitMeter)
	lots := []entity.MaterialLot{lot("L1", "M", dayN(1), "10", "2.00")}
	_ = inventory.Breakdown(m, d("8"), entity.UnitMeter, lots)
	assertDec(t, "10", lots[0].RemainingQuantity)
}

func TestRequestAllocation_Precondiciones(t *testing.T) {
	materials := []entity.RawMaterial{material("M", entity.UnitMeter)}

	_, err := inventory.RequestAllocation("NOEXISTE", d("1"), entity.UnitMeter, nil, materials)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = inventory.RequestAllocation("M", d("-1"), entity.UnitMeter, nil, materials)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	b, err := inventory.RequestAllocation("M", d("0"), entity.UnitMeter, nil, materials)
	require.NoError(t, err)
	assert.Empty(t, b.Allocations)
}
