package risk_test

import (
	"testing"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

var day0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dayN(n int) time.Time { return day0.AddDate(0, 0, n-1) }

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}

func mat(id string) entity.RawMaterial {
	return entity.RawMaterial{ID: id, Name: "Material " + id, Unit: entity.UnitPiece, Status: entity.MaterialStatusActive}
}

func lotOf(id, materialID string, date time.Time, initial, remaining, cost string) entity.MaterialLot {
	return entity.MaterialLot{
		ID: id, MaterialID: materialID, Date: date,
		InitialQuantity: d(initial), RemainingQuantity: d(remaining), UnitCost: d(cost),
	}
}

func move(materialID string, kind entity.LedgerKind, date time.Time, qty, cost string) entity.LedgerEntry {
	return entity.LedgerEntry{MaterialID: materialID, Kind: kind, Date: date, Quantity: d(qty), UnitCost: d(cost)}
}

func product(id, price, margin string, qty string) entity.Product {
	return entity.Product{
		ID: id, Name: "Producto " + id, Price: d(price), TargetMargin: d(margin),
		Composition: []entity.CompositionLine{entity.LinearLine{MaterialID: "M", Quantity: d(qty), Unit: entity.UnitPiece}},
	}
}

// ── detectores ────────────────────────────────────────────────────────────────

func TestDetectDebt(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(10),
		Materials: []entity.RawMaterial{mat("M")},
		Ledger:    []entity.LedgerEntry{move("M", entity.LedgerAssumedEgress, dayN(2), "2", "2.00")},
	}

	signals := risk.DetectDebt(s)

	require.Len(t, signals, 1)
	sig := signals[0]
	assert.Equal(t, risk.TypeDebt, sig.Type)
	assert.Equal(t, risk.SeverityCritical, sig.Severity)
	decEq(t, "1", sig.Probability)
	decEq(t, "4", sig.EstimatedImpact)
	assert.Equal(t, 0, sig.TimeToImpactDays)

	s.Ledger = append(s.Ledger, move("M", entity.LedgerCompensatingEgress, dayN(3), "2", "2.50"))
	assert.Empty(t, risk.DetectDebt(s))
}

// Producto con costo 8.00 y precio 6.00: una única señal con impacto 20.00.
func TestDetectPriceBelowCost(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(10),
		Materials: []entity.RawMaterial{mat("M")},
		Lots:      []entity.MaterialLot{lotOf("L1", "M", dayN(1), "10", "10", "2.00")},
		Products: []entity.Product{
			product("P", "6.00", "0.30", "4"),
			product("OK", "9.00", "0.10", "4"),
		},
	}

	signals := risk.DetectPriceBelowCost(s)

	require.Len(t, signals, 1)
	assert.Equal(t, "P", signals[0].EntityID)
	assert.Equal(t, risk.SeverityCritical, signals[0].Severity)
	decEq(t, "20.00", signals[0].EstimatedImpact)
	decEq(t, "8", signals[0].Decimal("cost"))
}

func TestDetectMarginDrift(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(10),
		Materials: []entity.RawMaterial{mat("M")},
		Lots:      []entity.MaterialLot{lotOf("L1", "M", dayN(1), "10", "10", "2.00")},
		Products: []entity.Product{
			product("ALTO", "10", "0.50", "4"),  // margen 0.20, deriva 0.30
			product("MEDIO", "10", "0.30", "4"), // deriva 0.10
			product("SANO", "10", "0.22", "4"),  // deriva 0.02
			product("SINPRECIO", "0", "0.50", "4"), // margen 0, deriva 0.50
		},
	}

	signals := risk.DetectMarginDrift(s)

	require.Len(t, signals, 3)
	alto := signals[0]
	assert.Equal(t, "ALTO", alto.EntityID)
	assert.Equal(t, risk.SeverityHigh, alto.Severity)
	decEq(t, "0.9", alto.Probability)
	decEq(t, "60", alto.EstimatedImpact) // (16 - 10) * 10
	assert.Equal(t, 7, alto.TimeToImpactDays)

	assert.Equal(t, "MEDIO", signals[1].EntityID)
	assert.Equal(t, risk.SeverityMedium, signals[1].Severity)
	decEq(t, "0.7", signals[1].Probability)

	sinPrecio := signals[2]
	assert.Equal(t, "SINPRECIO", sinPrecio.EntityID)
	assert.Equal(t, risk.SeverityHigh, sinPrecio.Severity, "un producto sin precio también deriva de su margen")
	decEq(t, "160", sinPrecio.EstimatedImpact) // (16 - 0) * 10
}

func TestDetectStockBreak_Severidades(t *testing.T) {
	now := dayN(40)
	// 30 unidades consumidas en la ventana → 1 por día.
	ledger := []entity.LedgerEntry{
		move("A", entity.LedgerEgress, dayN(20), "30", "2.00"),
		move("B", entity.LedgerEgress, dayN(20), "30", "2.00"),
		move("C", entity.LedgerEgress, dayN(20), "30", "2.00"),
		move("C", entity.LedgerEgress, dayN(2), "500", "2.00"), // fuera de ventana
	}
	s := entity.Snapshot{
		Now:       now,
		Materials: []entity.RawMaterial{mat("A"), mat("B"), mat("C")},
		Lots: []entity.MaterialLot{
			lotOf("LA", "A", dayN(1), "100", "1", "2.00"),
			lotOf("LB", "B", dayN(1), "100", "3", "2.00"),
			lotOf("LC", "C", dayN(1), "100", "5", "2.00"),
		},
		Ledger: ledger,
	}

	signals := risk.DetectStockBreak(s)

	require.Len(t, signals, 3)
	assert.Equal(t, risk.SeverityCritical, signals[0].Severity)
	assert.Equal(t, 1, signals[0].TimeToImpactDays)
	decEq(t, "12", signals[0].EstimatedImpact) // 1 * 2 * (7 - 1)

	assert.Equal(t, risk.SeverityHigh, signals[1].Severity)
	assert.Equal(t, risk.SeverityMedium, signals[2].Severity)
	assert.Equal(t, 5, signals[2].TimeToImpactDays)
	assert.InDelta(t, 2.0/7.0, signals[2].Probability.InexactFloat64(), 1e-9)
}

// La deuda pendiente reduce el saldo efectivo.
func TestDetectStockBreak_DescuentaDeuda(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(40),
		Materials: []entity.RawMaterial{mat("M")},
		Lots:      []entity.MaterialLot{lotOf("L1", "M", dayN(1), "100", "10", "2.00")},
		Ledger: []entity.LedgerEntry{
			move("M", entity.LedgerEgress, dayN(30), "30", "2.00"),
			move("M", entity.LedgerAssumedEgress, dayN(35), "9", "2.00"),
		},
	}

	signals := risk.DetectStockBreak(s)

	require.Len(t, signals, 1)
	assert.Equal(t, risk.SeverityCritical, signals[0].Severity)
	decEq(t, "1", signals[0].Decimal("effectiveRemaining"))
	decEq(t, "1", signals[0].Probability.Add(d("1").Div(d("7"))).Round(10))
}

func TestDetectStockBreak_OmiteSinConsumoEInactivas(t *testing.T) {
	inactive := mat("I")
	inactive.Status = entity.MaterialStatusInactive
	s := entity.Snapshot{
		Now:       dayN(40),
		Materials: []entity.RawMaterial{mat("M"), inactive},
		Lots: []entity.MaterialLot{
			lotOf("L1", "M", dayN(1), "10", "1", "2.00"),
			lotOf("L2", "I", dayN(1), "10", "1", "2.00"),
		},
		Ledger: []entity.LedgerEntry{move("I", entity.LedgerEgress, dayN(30), "30", "2.00")},
	}
	assert.Empty(t, risk.DetectStockBreak(s))
}

func TestDetectDeadStock(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(100),
		Materials: []entity.RawMaterial{mat("VIEJO"), mat("POCO"), mat("NUEVO")},
		Lots: []entity.MaterialLot{
			lotOf("V1", "VIEJO", dayN(1), "10", "5", "2.00"),
			lotOf("V2", "VIEJO", dayN(90), "10", "10", "2.00"),
			lotOf("P1", "POCO", dayN(1), "10", "2", "2.00"),
			lotOf("N1", "NUEVO", dayN(80), "10", "10", "2.00"),
		},
	}

	signals := risk.DetectDeadStock(s)

	require.Len(t, signals, 1)
	sig := signals[0]
	assert.Equal(t, "VIEJO", sig.EntityID)
	assert.Equal(t, risk.SeverityLow, sig.Severity)
	decEq(t, "10", sig.EstimatedImpact)
	assert.Equal(t, []string{"V1"}, sig.Data["lots"])
}

func TestDetectDeadStock_IncluyeInactivas(t *testing.T) {
	inactiva := mat("BAJA")
	inactiva.Status = entity.MaterialStatusInactive
	borrada := mat("BORRADA")
	at := dayN(50)
	borrada.DeletedAt = &at
	s := entity.Snapshot{
		Now:       dayN(100),
		Materials: []entity.RawMaterial{inactiva, borrada},
		Lots: []entity.MaterialLot{
			lotOf("B1", "BAJA", dayN(1), "10", "10", "2.00"),
			lotOf("X1", "BORRADA", dayN(1), "10", "10", "2.00"),
		},
	}

	signals := risk.DetectDeadStock(s)

	require.Len(t, signals, 1, "la materia prima inactiva con lotes viejos es inventario muerto")
	assert.Equal(t, "BAJA", signals[0].EntityID)
	decEq(t, "20", signals[0].EstimatedImpact)
}

func TestDetectAll_OrdenFijo(t *testing.T) {
	s := entity.Snapshot{
		Now:       dayN(100),
		Materials: []entity.RawMaterial{mat("M")},
		Lots:      []entity.MaterialLot{lotOf("L1", "M", dayN(1), "100", "50", "2.00")},
		Ledger: []entity.LedgerEntry{
			move("M", entity.LedgerAssumedEgress, dayN(99), "1", "2.00"),
		},
		Products: []entity.Product{product("P", "1", "0.30", "1")},
	}

	signals := risk.DetectAll(s)

	var types []risk.Type
	for _, sig := range signals {
		types = append(types, sig.Type)
	}
	assert.Equal(t, []risk.Type{risk.TypeDebt, risk.TypePriceBelowCost, risk.TypeMarginDrift, risk.TypeDeadStock}, types)
}
