package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind tipo de movimiento del libro de existencias.
type LedgerKind string

const (
	LedgerIngress            LedgerKind = "ingress"             // entrada de un lote
	LedgerEgress             LedgerKind = "egress"              // consumo financiado por un lote
	LedgerAssumedEgress      LedgerKind = "assumed_egress"      // consumo sin stock (deuda)
	LedgerCompensatingEgress LedgerKind = "compensating_egress" // saldo de deuda con un lote nuevo
)

// ReferenceAutoCompensation marca las compensaciones generadas al crear un lote.
const ReferenceAutoCompensation = "COMPENSACION_AUTOMATICA"

// LedgerEntry movimiento inmutable del libro. Solo se agrega; nunca se edita ni se borra.
// LotID vacío en las entradas de deuda; ProductID vacío si el movimiento no viene de producción.
type LedgerEntry struct {
	ID         string
	TenantID   string
	MaterialID string
	LotID      string
	ProductID  string
	Date       time.Time
	Kind       LedgerKind
	Quantity   decimal.Decimal // siempre positiva; el sentido lo da Kind
	UnitCost   decimal.Decimal
	Reference  string
	CreatedAt  time.Time
}

// Total valor del movimiento (Quantity * UnitCost).
func (e LedgerEntry) Total() decimal.Decimal {
	return e.Quantity.Mul(e.UnitCost)
}
