package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ConsumptionInput comando de consumo: producir Quantity unidades de Product.
type ConsumptionInput struct {
	Product   *entity.Product
	Quantity  decimal.Decimal
	Lots      []entity.MaterialLot
	Materials []entity.RawMaterial
	At        time.Time
	Reference string
}

// LineConsumption desglose FIFO de una línea de la receta.
type LineConsumption struct {
	MaterialID string
	Breakdown  AllocationBreakdown
}

// ConsumptionResult deltas a persistir en una sola transacción: lotes tocados y movimientos nuevos.
type ConsumptionResult struct {
	UpdatedLots         []entity.MaterialLot
	NewLedgerEntries    []entity.LedgerEntry
	Lines               []LineConsumption
	TotalCost           decimal.Decimal
	PerUnitCost         decimal.Decimal
	HasMissingMaterials bool
}

// Consume evalúa la receta del producto contra los lotes y devuelve los deltas.
// Nunca falla por falta de stock: el faltante se registra como salida asumida (deuda).
// Las líneas se evalúan en orden sobre una copia de trabajo, de modo que dos líneas de
// la misma materia prima no asignan dos veces el mismo saldo.
func Consume(in ConsumptionInput) (ConsumptionResult, error) {
	if in.Product == nil {
		return ConsumptionResult{}, fmt.Errorf("consumo: producto requerido: %w", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return ConsumptionResult{}, fmt.Errorf("consumo: cantidad %s: %w", in.Quantity, domain.ErrInvalidInput)
	}

	working := make([]entity.MaterialLot, len(in.Lots))
	copy(working, in.Lots)
	index := make(map[string]int, len(working))
	for i, l := range working {
		index[l.ID] = i
	}
	var touched []int
	seen := make(map[int]bool)

	res := ConsumptionResult{TotalCost: decimal.Zero}
	for _, line := range in.Product.Composition {
		material, ok := findMaterial(line.Material(), in.Materials)
		if !ok {
			return ConsumptionResult{}, fmt.Errorf("consumo de %s: materia prima %s: %w", in.Product.Name, line.Material(), domain.ErrNotFound)
		}
		perUnit, unit := LineRequirement(line, working)
		b := Breakdown(material, perUnit.Mul(in.Quantity), unit, working)
		res.Lines = append(res.Lines, LineConsumption{MaterialID: material.ID, Breakdown: b})
		res.TotalCost = res.TotalCost.Add(b.Total)

		for _, a := range b.Allocations {
			if a.IsMissing {
				res.HasMissingMaterials = true
				res.NewLedgerEntries = append(res.NewLedgerEntries, movement(in, material.ID, "", entity.LedgerAssumedEgress, a))
				continue
			}
			i := index[a.LotID]
			working[i].RemainingQuantity = working[i].RemainingQuantity.Sub(a.QuantityNative)
			if !seen[i] {
				seen[i] = true
				touched = append(touched, i)
			}
			res.NewLedgerEntries = append(res.NewLedgerEntries, movement(in, material.ID, a.LotID, entity.LedgerEgress, a))
		}
	}

	for _, i := range touched {
		res.UpdatedLots = append(res.UpdatedLots, working[i])
	}
	res.PerUnitCost = res.TotalCost.Div(in.Quantity)
	return res, nil
}

func movement(in ConsumptionInput, materialID, lotID string, kind entity.LedgerKind, a Allocation) entity.LedgerEntry {
	return entity.LedgerEntry{
		ID:         uuid.New().String(),
		TenantID:   in.Product.TenantID,
		MaterialID: materialID,
		LotID:      lotID,
		ProductID:  in.Product.ID,
		Date:       in.At,
		Kind:       kind,
		Quantity:   a.QuantityNative,
		UnitCost:   a.UnitCost,
		Reference:  in.Reference,
		CreatedAt:  in.At,
	}
}
