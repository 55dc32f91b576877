package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
)

// CoverageDays días de consumo que debe cubrir una compra sugerida.
const CoverageDays = 14

// ReplenishmentUseCase genera la lista de compras sugeridas por materia prima.
// Combina el ritmo de consumo de los últimos 30 días con la deuda técnica pendiente.
type ReplenishmentUseCase struct {
	loader SnapshotLoader
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(loader SnapshotLoader) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{loader: loader}
}

// GenerateReplenishmentList devuelve las materias primas activas que necesitan compra,
// con la cantidad sugerida para saldar la deuda y cubrir CoverageDays de consumo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, tenantID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	snap, err := uc.loader.LoadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return Replenishment(snap), nil
}

// Replenishment calcula las sugerencias sobre una foto.
func Replenishment(snap entity.Snapshot) []dto.ReplenishmentSuggestionDTO {
	coverage := decimal.NewFromInt(CoverageDays)

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, m := range snap.Materials {
		if !m.IsActive() {
			continue
		}
		lots := entity.LotsOf(m.ID, snap.Lots)
		remaining := decimal.Zero
		for _, l := range lots {
			remaining = remaining.Add(l.RemainingQuantity)
		}
		pending := inventory.MaterialDebt(m.ID, snap.Ledger).PendingQty
		rate := risk.DailyConsumption(m.ID, snap.Ledger, snap.Now)

		ideal := rate.Mul(coverage)
		suggestedQty := ideal.Sub(remaining.Sub(pending))
		if !suggestedQty.GreaterThan(decimal.Zero) {
			continue
		}

		unitCost := decimal.Zero
		if latest, ok := inventory.LatestLot(lots); ok {
			unitCost = latest.UnitCost
		}
		var daysUntilBreak *decimal.Decimal
		if rate.GreaterThan(decimal.Zero) {
			days := remaining.Sub(pending).Div(rate).Round(2)
			daysUntilBreak = &days
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:         m.ID,
			MaterialName:       m.Name,
			Unit:               string(m.Unit),
			RemainingQuantity:  remaining,
			PendingDebt:        pending,
			DailyConsumption:   rate,
			DaysUntilBreak:     daysUntilBreak,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           unitCost,
			EstimatedOrderCost: suggestedQty.Mul(unitCost),
		})
	}

	// Ordenar: primero la que se agota antes (sin consumo al final), luego mayor deuda
	// pendiente, finalmente mayor costo estimado de la compra.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		switch {
		case a.DaysUntilBreak != nil && b.DaysUntilBreak == nil:
			return true
		case a.DaysUntilBreak == nil && b.DaysUntilBreak != nil:
			return false
		case a.DaysUntilBreak != nil && !a.DaysUntilBreak.Equal(*b.DaysUntilBreak):
			return a.DaysUntilBreak.LessThan(*b.DaysUntilBreak)
		}
		if !a.PendingDebt.Equal(b.PendingDebt) {
			return a.PendingDebt.GreaterThan(b.PendingDebt)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions
}
