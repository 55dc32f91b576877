package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de ingreso de un lote: determinan cómo se derivó el costo unitario del precio total.
const (
	EntryModeRoll  = "roll"  // rollo: cantidad = largo, costo por unidad de largo
	EntryModePiece = "piece" // pieza: cantidad = número de piezas
)

// MaterialLot representa una compra física de una materia prima (lote).
// Invariante: 0 <= RemainingQuantity <= InitialQuantity.
// UnitCost está expresado en la unidad propia de la materia prima.
type MaterialLot struct {
	ID                string
	TenantID          string
	MaterialID        string
	Date              time.Time
	InitialQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	Width             decimal.Decimal // cero = sin geometría
	Length            decimal.Decimal
	Area              decimal.Decimal
	EntryMode         string
	Provider          string
	CreatedAt         time.Time
}

// HasStock indica si el lote conserva cantidad disponible.
func (l MaterialLot) HasStock() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero)
}

// Untouched indica si el lote no ha sido consumido (remaining == initial).
func (l MaterialLot) Untouched() bool {
	return l.RemainingQuantity.Equal(l.InitialQuantity)
}

// Value valor congelado del lote: remaining * unit cost.
func (l MaterialLot) Value() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}
