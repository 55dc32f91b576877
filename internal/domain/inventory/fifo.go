package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation asignación de una parte del requerimiento a un lote (o faltante si IsMissing).
// QuantityNative está en la unidad de la materia prima; QuantityTarget en la unidad pedida.
type Allocation struct {
	LotID          string
	QuantityNative decimal.Decimal
	QuantityTarget decimal.Decimal
	UnitCost       decimal.Decimal
	Subtotal       decimal.Decimal
	IsMissing      bool
}

// AllocationBreakdown resultado del desglose FIFO de un requerimiento.
type AllocationBreakdown struct {
	MaterialID      string
	NativeUnit      entity.Unit
	TargetUnit      entity.Unit
	RequiredNative  decimal.Decimal
	Allocations     []Allocation
	Total           decimal.Decimal
	MissingQuantity decimal.Decimal // en unidad nativa
}

// HasMissing indica si el stock no alcanzó y se emitió una asignación faltante.
func (b AllocationBreakdown) HasMissing() bool {
	return b.MissingQuantity.GreaterThan(decimal.Zero)
}

// Breakdown recorre los lotes de la materia prima del más antiguo al más reciente y
// asigna el requerimiento. Es pura: no modifica lots; el llamador aplica los deltas.
//
// Si el stock no alcanza, agrega una asignación faltante valorada al costo del lote más
// reciente de la materia prima, tenga o no saldo (0 si nunca hubo lotes).
func Breakdown(material entity.RawMaterial, required decimal.Decimal, targetUnit entity.Unit, lots []entity.MaterialLot) AllocationBreakdown {
	nativeUnit := material.Unit
	toNative := ConversionFactor(targetUnit, nativeUnit)
	toTarget := ConversionFactor(nativeUnit, targetUnit)

	out := AllocationBreakdown{
		MaterialID:      material.ID,
		NativeUnit:      nativeUnit,
		TargetUnit:      targetUnit,
		RequiredNative:  required.Mul(toNative),
		Total:           decimal.Zero,
		MissingQuantity: decimal.Zero,
	}
	if !out.RequiredNative.GreaterThan(decimal.Zero) {
		return out
	}

	own := entity.LotsOf(material.ID, lots)
	available := make([]entity.MaterialLot, 0, len(own))
	for _, l := range own {
		if l.HasStock() {
			available = append(available, l)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Date.Before(available[j].Date)
	})

	pending := out.RequiredNative
	for _, lot := range available {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, lot.RemainingQuantity)
		out.Allocations = append(out.Allocations, Allocation{
			LotID:          lot.ID,
			QuantityNative: take,
			QuantityTarget: take.Mul(toTarget),
			UnitCost:       lot.UnitCost,
			Subtotal:       take.Mul(lot.UnitCost),
		})
		pending = pending.Sub(take)
	}

	if pending.GreaterThan(decimal.Zero) {
		price := decimal.Zero
		if latest, ok := LatestLot(own); ok {
			price = latest.UnitCost
		}
		out.Allocations = append(out.Allocations, Allocation{
			QuantityNative: pending,
			QuantityTarget: pending.Mul(toTarget),
			UnitCost:       price,
			Subtotal:       pending.Mul(price),
			IsMissing:      true,
		})
		out.MissingQuantity = pending
	}

	for _, a := range out.Allocations {
		out.Total = out.Total.Add(a.Subtotal)
	}
	return out
}

// LatestLot devuelve el lote de fecha más reciente; en empate gana el último insertado.
func LatestLot(lots []entity.MaterialLot) (entity.MaterialLot, bool) {
	if len(lots) == 0 {
		return entity.MaterialLot{}, false
	}
	latest := lots[0]
	for _, l := range lots[1:] {
		if !l.Date.Before(latest.Date) {
			latest = l
		}
	}
	return latest, true
}

// RequestAllocation valida las precondiciones del llamador y delega en Breakdown.
func RequestAllocation(materialID string, required decimal.Decimal, targetUnit entity.Unit, lots []entity.MaterialLot, materials []entity.RawMaterial) (AllocationBreakdown, error) {
	if required.IsNegative() {
		return AllocationBreakdown{}, fmt.Errorf("asignación: cantidad negativa %s: %w", required, domain.ErrInvalidInput)
	}
	material, ok := findMaterial(materialID, materials)
	if !ok {
		return AllocationBreakdown{}, fmt.Errorf("asignación: materia prima %s: %w", materialID, domain.ErrNotFound)
	}
	return Breakdown(material, required, targetUnit, lots), nil
}

func findMaterial(id string, materials []entity.RawMaterial) (entity.RawMaterial, bool) {
	for _, m := range materials {
		if m.ID == id && m.IsAlive() {
			return m, true
		}
	}
	return entity.RawMaterial{}, false
}
