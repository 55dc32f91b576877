package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Compensation parte de un lote nuevo que salda deuda pendiente de su materia prima.
type Compensation struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// LotCreation resultado de crear un lote: el lote ajustado y los movimientos a persistir
// (ingreso primero, compensación después).
type LotCreation struct {
	Lot     entity.MaterialLot
	Entries []entity.LedgerEntry
}

// ComputeCompensation paso 1: cuánto del lote nuevo se destina a saldar deuda.
// qty = min(deuda pendiente, cantidad inicial del lote), al costo unitario del lote nuevo.
func ComputeCompensation(lot entity.MaterialLot, ledger []entity.LedgerEntry) Compensation {
	pending := MaterialDebt(lot.MaterialID, ledger).PendingQty
	return Compensation{
		MaterialID: lot.MaterialID,
		Quantity:   decimal.Min(pending, lot.InitialQuantity),
		UnitCost:   lot.UnitCost,
	}
}

// ApplyCompensation paso 2: genera el ingreso y, si corresponde, la compensación, y descuenta
// la cantidad compensada del remanente del lote antes de persistirlo.
func ApplyCompensation(lot entity.MaterialLot, comp Compensation, at time.Time) (entity.MaterialLot, []entity.LedgerEntry) {
	lot.RemainingQuantity = lot.InitialQuantity
	entries := []entity.LedgerEntry{IngressEntry(lot, at)}
	if comp.Quantity.GreaterThan(decimal.Zero) {
		entries = append(entries, entity.LedgerEntry{
			ID:         uuid.New().String(),
			TenantID:   lot.TenantID,
			MaterialID: lot.MaterialID,
			LotID:      lot.ID,
			Date:       at,
			Kind:       entity.LedgerCompensatingEgress,
			Quantity:   comp.Quantity,
			UnitCost:   comp.UnitCost,
			Reference:  entity.ReferenceAutoCompensation,
			CreatedAt:  at,
		})
		lot.RemainingQuantity = lot.InitialQuantity.Sub(comp.Quantity)
	}
	return lot, entries
}

// IngressEntry movimiento de ingreso de un lote (cantidad = cantidad inicial).
func IngressEntry(lot entity.MaterialLot, at time.Time) entity.LedgerEntry {
	return entity.LedgerEntry{
		ID:         uuid.New().String(),
		TenantID:   lot.TenantID,
		MaterialID: lot.MaterialID,
		LotID:      lot.ID,
		Date:       at,
		Kind:       entity.LedgerIngress,
		Quantity:   lot.InitialQuantity,
		UnitCost:   lot.UnitCost,
		Reference:  "INGRESO_LOTE",
		CreatedAt:  at,
	}
}

// CreateLot compone ComputeCompensation y ApplyCompensation para un lote nuevo.
func CreateLot(lot entity.MaterialLot, ledger []entity.LedgerEntry, at time.Time) (LotCreation, error) {
	if lot.MaterialID == "" {
		return LotCreation{}, fmt.Errorf("crear lote: materia prima requerida: %w", domain.ErrInvalidInput)
	}
	if !lot.InitialQuantity.GreaterThan(decimal.Zero) {
		return LotCreation{}, fmt.Errorf("crear lote: cantidad inicial %s: %w", lot.InitialQuantity, domain.ErrInvalidInput)
	}
	if lot.UnitCost.IsNegative() {
		return LotCreation{}, fmt.Errorf("crear lote: costo unitario %s: %w", lot.UnitCost, domain.ErrInvalidInput)
	}
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	comp := ComputeCompensation(lot, ledger)
	adjusted, entries := ApplyCompensation(lot, comp, at)
	return LotCreation{Lot: adjusted, Entries: entries}, nil
}
