package risk

import (
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Umbrales de los detectores.
const (
	ConsumptionWindowDays = 30 // ventana de consumo promedio diario
	StockBreakHorizonDays = 7
	DeadStockAgeDays      = 60
	SalesVolumeProxy      = 10 // unidades vendidas asumidas para estimar pérdidas por producto
)

var (
	driftThreshold     = decimal.RequireFromString("0.05")
	highDriftThreshold = decimal.RequireFromString("0.20")
	deadStockFloor     = decimal.NewFromInt(5)

	probDriftHigh   = decimal.RequireFromString("0.9")
	probDriftMedium = decimal.RequireFromString("0.7")
	probDeadStock   = decimal.RequireFromString("0.6")

	one = decimal.NewFromInt(1)
)

// DetectAll ejecuta los cinco detectores en orden fijo.
func DetectAll(s entity.Snapshot) []RiskSignal {
	var out []RiskSignal
	out = append(out, DetectDebt(s)...)
	out = append(out, DetectPriceBelowCost(s)...)
	out = append(out, DetectMarginDrift(s)...)
	out = append(out, DetectStockBreak(s)...)
	out = append(out, DetectDeadStock(s)...)
	return out
}

// DetectDebt una señal crítica si existe deuda financiera pendiente.
func DetectDebt(s entity.Snapshot) []RiskSignal {
	debts := inventory.MaterialDebts(s.Ledger)
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.FinancialDebt)
	}
	if !total.GreaterThan(decimal.Zero) {
		return nil
	}
	return []RiskSignal{{
		ID:               signalID(TypeDebt, ""),
		Type:             TypeDebt,
		Severity:         SeverityCritical,
		Probability:      one,
		EstimatedImpact:  total,
		TimeToImpactDays: 0,
		EntityName:       "Deuda técnica",
		Data: map[string]any{
			"materials":  debts,
			"totalDebt":  total,
			"debtsCount": len(debts),
		},
	}}
}

// DetectPriceBelowCost una señal por producto vendido por debajo de su costo FIFO.
func DetectPriceBelowCost(s entity.Snapshot) []RiskSignal {
	var out []RiskSignal
	for _, p := range s.Products {
		cost, err := inventory.ProductCost(p, s.Lots, s.Materials)
		if err != nil || !p.Price.LessThan(cost) {
			continue
		}
		out = append(out, RiskSignal{
			ID:               signalID(TypePriceBelowCost, p.ID),
			Type:             TypePriceBelowCost,
			Severity:         SeverityCritical,
			Probability:      one,
			EstimatedImpact:  cost.Sub(p.Price).Mul(decimal.NewFromInt(SalesVolumeProxy)),
			TimeToImpactDays: 0,
			EntityID:         p.ID,
			EntityName:       p.Name,
			Data: map[string]any{
				"cost":  cost,
				"price": p.Price,
			},
		})
	}
	return out
}

// DetectMarginDrift una señal por producto cuyo margen real queda más de 5 puntos bajo el objetivo.
// Sin precio de venta el margen real es 0.
func DetectMarginDrift(s entity.Snapshot) []RiskSignal {
	var out []RiskSignal
	for _, p := range s.Products {
		cost, err := inventory.ProductCost(p, s.Lots, s.Materials)
		if err != nil {
			continue
		}
		target, err := inventory.TargetPrice(cost, p.TargetMargin)
		if err != nil {
			continue
		}
		actual := inventory.Margin(p.Price, cost)
		drift := p.TargetMargin.Sub(actual)
		if !drift.GreaterThan(driftThreshold) {
			continue
		}

		severity, prob := SeverityMedium, probDriftMedium
		if drift.GreaterThan(highDriftThreshold) {
			severity, prob = SeverityHigh, probDriftHigh
		}
		gap := decimal.Max(decimal.Zero, target.Sub(p.Price))
		out = append(out, RiskSignal{
			ID:               signalID(TypeMarginDrift, p.ID),
			Type:             TypeMarginDrift,
			Severity:         severity,
			Probability:      prob,
			EstimatedImpact:  gap.Mul(decimal.NewFromInt(SalesVolumeProxy)),
			TimeToImpactDays: StockBreakHorizonDays,
			EntityID:         p.ID,
			EntityName:       p.Name,
			Data: map[string]any{
				"cost":         cost,
				"price":        p.Price,
				"actualMargin": actual,
				"targetMargin": p.TargetMargin,
				"targetPrice":  target,
				"drift":        drift,
			},
		})
	}
	return out
}

// DetectStockBreak una señal por materia prima activa que se agotará en menos de 7 días
// al ritmo de consumo de los últimos 30 días. El saldo efectivo descuenta la deuda pendiente.
func DetectStockBreak(s entity.Snapshot) []RiskSignal {
	horizon := decimal.NewFromInt(StockBreakHorizonDays)

	var out []RiskSignal
	for _, m := range s.Materials {
		if !m.IsActive() {
			continue
		}
		rate := DailyConsumption(m.ID, s.Ledger, s.Now)
		if !rate.GreaterThan(decimal.Zero) {
			continue
		}

		lots := entity.LotsOf(m.ID, s.Lots)
		remaining := decimal.Zero
		for _, l := range lots {
			remaining = remaining.Add(l.RemainingQuantity)
		}
		pending := inventory.MaterialDebt(m.ID, s.Ledger).PendingQty
		effective := remaining.Sub(pending)
		days := effective.Div(rate)
		if !days.LessThan(horizon) {
			continue
		}

		avg := AverageUnitCost(lots)
		prob := clamp01(one.Sub(days.Div(horizon)))
		out = append(out, RiskSignal{
			ID:               signalID(TypeStockBreak, m.ID),
			Type:             TypeStockBreak,
			Severity:         stockBreakSeverity(days),
			Probability:      prob,
			EstimatedImpact:  rate.Mul(avg).Mul(horizon.Sub(days)),
			TimeToImpactDays: int(decimal.Max(days, decimal.Zero).Floor().IntPart()),
			EntityID:         m.ID,
			EntityName:       m.Name,
			Data: map[string]any{
				"dailyRate":          rate,
				"remaining":          remaining,
				"pendingDebt":        pending,
				"effectiveRemaining": effective,
				"daysUntilBreak":     days,
				"avgUnitCost":        avg,
				"unit":               m.Unit,
			},
		})
	}
	return out
}

// DetectDeadStock una señal por materia prima viva (activa o inactiva) con lotes de más de 60 días que
// aún conservan saldo, si el valor congelado supera el mínimo.
func DetectDeadStock(s entity.Snapshot) []RiskSignal {
	cutoff := s.Now.AddDate(0, 0, -DeadStockAgeDays)

	var out []RiskSignal
	for _, m := range s.Materials {
		if !m.IsAlive() {
			continue
		}
		frozen := decimal.Zero
		qty := decimal.Zero
		var lotIDs []string
		var oldest time.Time
		for _, l := range entity.LotsOf(m.ID, s.Lots) {
			if !l.HasStock() || !l.Date.Before(cutoff) {
				continue
			}
			frozen = frozen.Add(l.Value())
			qty = qty.Add(l.RemainingQuantity)
			lotIDs = append(lotIDs, l.ID)
			if oldest.IsZero() || l.Date.Before(oldest) {
				oldest = l.Date
			}
		}
		if !frozen.GreaterThan(deadStockFloor) {
			continue
		}
		out = append(out, RiskSignal{
			ID:               signalID(TypeDeadStock, m.ID),
			Type:             TypeDeadStock,
			Severity:         SeverityLow,
			Probability:      probDeadStock,
			EstimatedImpact:  frozen,
			TimeToImpactDays: 30,
			EntityID:         m.ID,
			EntityName:       m.Name,
			Data: map[string]any{
				"frozenValue":    frozen,
				"frozenQuantity": qty,
				"lots":           lotIDs,
				"oldestLotDate":  oldest,
				"unit":           m.Unit,
			},
		})
	}
	return out
}

// DailyConsumption consumo promedio diario de la materia prima: egresos de lote de los
// últimos 30 días antes de now, divididos por 30.
func DailyConsumption(materialID string, ledger []entity.LedgerEntry, now time.Time) decimal.Decimal {
	since := now.AddDate(0, 0, -ConsumptionWindowDays)
	consumed := decimal.Zero
	for _, e := range ledger {
		if e.MaterialID == materialID && e.Kind == entity.LedgerEgress && inWindow(e.Date, since, now) {
			consumed = consumed.Add(e.Quantity)
		}
	}
	return consumed.Div(decimal.NewFromInt(ConsumptionWindowDays))
}

// AverageUnitCost costo promedio ponderado del saldo; sin saldo, el costo del último lote.
func AverageUnitCost(lots []entity.MaterialLot) decimal.Decimal {
	var qtys, costs []decimal.Decimal
	for _, l := range lots {
		if l.HasStock() {
			qtys = append(qtys, l.RemainingQuantity)
			costs = append(costs, l.UnitCost)
		}
	}
	if avg := inventory.WeightedAverageCost(qtys, costs); avg.GreaterThan(decimal.Zero) {
		return avg
	}
	if latest, ok := inventory.LatestLot(lots); ok {
		return latest.UnitCost
	}
	return decimal.Zero
}

// ── helpers ───────────────────────────────────────────────────────────────────

func inWindow(t, since, now time.Time) bool {
	return t.After(since) && !t.After(now)
}

func stockBreakSeverity(days decimal.Decimal) Severity {
	switch {
	case days.LessThanOrEqual(one):
		return SeverityCritical
	case days.LessThanOrEqual(decimal.NewFromInt(3)):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

func clamp01(v decimal.Decimal) decimal.Decimal {
	return decimal.Min(one, decimal.Max(decimal.Zero, v))
}
