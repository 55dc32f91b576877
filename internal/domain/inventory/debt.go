package inventory

import (
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Debt deuda técnica de una materia prima: consumo asumido sin stock aún no compensado.
type Debt struct {
	MaterialID      string
	PendingQty      decimal.Decimal
	FinancialDebt   decimal.Decimal
	AverageUnitCost decimal.Decimal // promedio ponderado de las salidas asumidas
}

// MaterialDebt calcula la deuda de la materia prima desde el libro:
// pendiente = max(0, Σasumidas - Σcompensaciones); deuda financiera = pendiente * costo promedio asumido.
func MaterialDebt(materialID string, ledger []entity.LedgerEntry) Debt {
	assumed := decimal.Zero
	compensated := decimal.Zero
	var qtys, costs []decimal.Decimal
	for _, e := range ledger {
		if e.MaterialID != materialID {
			continue
		}
		switch e.Kind {
		case entity.LedgerAssumedEgress:
			assumed = assumed.Add(e.Quantity)
			qtys = append(qtys, e.Quantity)
			costs = append(costs, e.UnitCost)
		case entity.LedgerCompensatingEgress:
			compensated = compensated.Add(e.Quantity)
		}
	}
	pending := assumed.Sub(compensated)
	if pending.IsNegative() {
		pending = decimal.Zero
	}
	avg := WeightedAverageCost(qtys, costs)
	return Debt{
		MaterialID:      materialID,
		PendingQty:      pending,
		FinancialDebt:   pending.Mul(avg),
		AverageUnitCost: avg,
	}
}

// MaterialDebts deuda de cada materia prima presente en el libro, en orden de primera aparición.
// Solo incluye materias primas con cantidad pendiente.
func MaterialDebts(ledger []entity.LedgerEntry) []Debt {
	seen := make(map[string]bool)
	var out []Debt
	for _, e := range ledger {
		if seen[e.MaterialID] {
			continue
		}
		seen[e.MaterialID] = true
		d := MaterialDebt(e.MaterialID, ledger)
		if d.PendingQty.GreaterThan(decimal.Zero) {
			out = append(out, d)
		}
	}
	return out
}

// TotalFinancialDebt suma la deuda financiera de todas las materias primas.
func TotalFinancialDebt(ledger []entity.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, d := range MaterialDebts(ledger) {
		total = total.Add(d.FinancialDebt)
	}
	return total
}

// ProductHasActiveDebt indica si alguna salida asumida del producto sigue sin compensar
// en su materia prima. El llamador lo usa para bloquear cambios de composición.
func ProductHasActiveDebt(productID string, ledger []entity.LedgerEntry) bool {
	if productID == "" {
		return false
	}
	checked := make(map[string]bool)
	for _, e := range ledger {
		if e.Kind != entity.LedgerAssumedEgress || e.ProductID != productID || checked[e.MaterialID] {
			continue
		}
		checked[e.MaterialID] = true
		if MaterialDebt(e.MaterialID, ledger).PendingQty.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
