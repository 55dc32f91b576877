// Package risk contiene los detectores de señales de riesgo financiero y el chequeo de salud.
// Todas las funciones son puras: reciben una foto (entity.Snapshot) y no hacen I/O.
package risk

import "github.com/shopspring/decimal"

// Type tipo de señal de riesgo.
type Type string

const (
	TypeDebt           Type = "debt"
	TypePriceBelowCost Type = "price_below_cost"
	TypeMarginDrift    Type = "margin_drift"
	TypeStockBreak     Type = "stock_break"
	TypeDeadStock      Type = "dead_stock"
)

// Severity nivel cualitativo de la señal.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// RiskSignal señal efímera: se recalcula en cada evaluación y nunca se persiste.
// TimeToImpactDays = 0 indica que el impacto ya ocurrió.
type RiskSignal struct {
	ID               string
	Type             Type
	Severity         Severity
	Probability      decimal.Decimal // 0..1
	EstimatedImpact  decimal.Decimal
	TimeToImpactDays int
	EntityID         string
	EntityName       string
	Data             map[string]any
}

// Decimal lee un valor decimal de Data; cero si no existe.
func (s RiskSignal) Decimal(key string) decimal.Decimal {
	if v, ok := s.Data[key].(decimal.Decimal); ok {
		return v
	}
	return decimal.Zero
}

func signalID(t Type, entityID string) string {
	if entityID == "" {
		return string(t)
	}
	return string(t) + ":" + entityID
}
