package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseInput datos de una compra tal como los ingresa el usuario.
// En modo rollo Quantity se ignora: la cantidad es Length (en la unidad de la materia prima).
type PurchaseInput struct {
	TenantID   string
	MaterialID string
	Date       time.Time
	EntryMode  string
	TotalPrice decimal.Decimal
	Quantity   decimal.Decimal
	Width      decimal.Decimal
	Length     decimal.Decimal
	Provider   string
}

// LotFromPurchase deriva cantidad, área y costo unitario de una compra según el modo de ingreso.
func LotFromPurchase(in PurchaseInput) (entity.MaterialLot, error) {
	if in.TotalPrice.IsNegative() {
		return entity.MaterialLot{}, fmt.Errorf("compra: precio total %s: %w", in.TotalPrice, domain.ErrInvalidInput)
	}
	lot := entity.MaterialLot{
		TenantID:   in.TenantID,
		MaterialID: in.MaterialID,
		Date:       in.Date,
		EntryMode:  in.EntryMode,
		Provider:   in.Provider,
		Width:      in.Width,
		Length:     in.Length,
		Area:       in.Width.Mul(in.Length),
	}
	switch in.EntryMode {
	case entity.EntryModeRoll:
		lot.InitialQuantity = in.Length
	case entity.EntryModePiece, "":
		lot.EntryMode = entity.EntryModePiece
		lot.InitialQuantity = in.Quantity
	default:
		return entity.MaterialLot{}, fmt.Errorf("compra: modo de ingreso %q: %w", in.EntryMode, domain.ErrInvalidInput)
	}
	if !lot.InitialQuantity.GreaterThan(decimal.Zero) {
		return entity.MaterialLot{}, fmt.Errorf("compra: cantidad %s: %w", lot.InitialQuantity, domain.ErrInvalidInput)
	}
	lot.UnitCost = in.TotalPrice.Div(lot.InitialQuantity)
	lot.RemainingQuantity = lot.InitialQuantity
	return lot, nil
}

// LotEdit cambios solicitados sobre un lote. Los punteros nil no cambian.
type LotEdit struct {
	Date            *time.Time
	Provider        *string
	InitialQuantity *decimal.Decimal
	UnitCost        *decimal.Decimal
	Width           *decimal.Decimal
	Length          *decimal.Decimal
}

// TouchesFinancialFields indica si la edición cambia cantidad, costo o geometría.
func (e LotEdit) TouchesFinancialFields(lot entity.MaterialLot) bool {
	changed := func(p *decimal.Decimal, cur decimal.Decimal) bool {
		return p != nil && !p.Equal(cur)
	}
	return changed(e.InitialQuantity, lot.InitialQuantity) ||
		changed(e.UnitCost, lot.UnitCost) ||
		changed(e.Width, lot.Width) ||
		changed(e.Length, lot.Length)
}

// IsLotUntouched consulta para el llamador: solo los lotes intactos admiten cambios financieros.
func IsLotUntouched(lot entity.MaterialLot) bool {
	return lot.Untouched()
}

// ApplyLotEdit aplica la edición sobre una copia del lote. No valida la política:
// el llamador debe consultar IsLotUntouched y TouchesFinancialFields antes.
func ApplyLotEdit(lot entity.MaterialLot, e LotEdit) entity.MaterialLot {
	if e.Date != nil {
		lot.Date = *e.Date
	}
	if e.Provider != nil {
		lot.Provider = *e.Provider
	}
	if e.UnitCost != nil {
		lot.UnitCost = *e.UnitCost
	}
	if e.Width != nil {
		lot.Width = *e.Width
	}
	if e.Length != nil {
		lot.Length = *e.Length
	}
	if e.Width != nil || e.Length != nil {
		lot.Area = lot.Width.Mul(lot.Length)
	}
	if e.InitialQuantity != nil {
		lot.InitialQuantity = *e.InitialQuantity
		lot.RemainingQuantity = *e.InitialQuantity
	}
	return lot
}

// RewriteIngress refresca los campos desnormalizados del ingreso de un lote editado.
// Es la única reescritura permitida sobre el libro.
func RewriteIngress(entry entity.LedgerEntry, lot entity.MaterialLot) entity.LedgerEntry {
	if entry.Kind != entity.LedgerIngress || entry.LotID != lot.ID {
		return entry
	}
	entry.Date = lot.Date
	entry.Quantity = lot.InitialQuantity
	entry.UnitCost = lot.UnitCost
	return entry
}
