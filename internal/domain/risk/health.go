package risk

import (
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductCost costo FIFO vigente de un producto y su precio sugerido.
// Err queda con el motivo si el costo no se pudo calcular (p. ej. materia prima borrada).
type ProductCost struct {
	ProductID      string
	SKU            string
	Name           string
	Price          decimal.Decimal
	Cost           decimal.Decimal
	Margin         decimal.Decimal
	TargetMargin   decimal.Decimal
	SuggestedPrice decimal.Decimal
	Err            string
}

// HealthReport resultado del chequeo de salud de un tenant.
type HealthReport struct {
	GeneratedAt          time.Time
	Signals              []RiskSignal
	TotalFinancialDebt   decimal.Decimal
	InventoryValue       decimal.Decimal
	MaterialDebts        []inventory.Debt
	ProductCosts         []ProductCost
	ProductionLast30Days decimal.Decimal // unidades producidas
	ProductionCost30Days decimal.Decimal
}

// RunHealthCheck ejecuta los detectores y arma los totales del inventario.
func RunHealthCheck(s entity.Snapshot) HealthReport {
	rep := HealthReport{
		GeneratedAt:          s.Now,
		Signals:              DetectAll(s),
		TotalFinancialDebt:   inventory.TotalFinancialDebt(s.Ledger),
		InventoryValue:       decimal.Zero,
		MaterialDebts:        inventory.MaterialDebts(s.Ledger),
		ProductionLast30Days: decimal.Zero,
		ProductionCost30Days: decimal.Zero,
	}

	for _, l := range s.Lots {
		if _, ok := s.MaterialByID(l.MaterialID); ok {
			rep.InventoryValue = rep.InventoryValue.Add(l.Value())
		}
	}

	for _, p := range s.Products {
		pc := ProductCost{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Price:        p.Price,
			TargetMargin: p.TargetMargin,
		}
		cost, err := inventory.ProductCost(p, s.Lots, s.Materials)
		if err != nil {
			pc.Err = err.Error()
			rep.ProductCosts = append(rep.ProductCosts, pc)
			continue
		}
		pc.Cost = cost
		pc.Margin = inventory.Margin(p.Price, cost)
		if suggested, err := inventory.SuggestedPrice(cost, p.TargetMargin); err == nil {
			pc.SuggestedPrice = suggested
		}
		rep.ProductCosts = append(rep.ProductCosts, pc)
	}

	since := s.Now.AddDate(0, 0, -ConsumptionWindowDays)
	for _, mv := range s.Movements {
		if inWindow(mv.Date, since, s.Now) {
			rep.ProductionLast30Days = rep.ProductionLast30Days.Add(mv.Quantity)
			rep.ProductionCost30Days = rep.ProductionCost30Days.Add(mv.TotalCost)
		}
	}
	return rep
}
