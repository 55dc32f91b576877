package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO representa una sugerencia de compra para una materia prima
// que se agota o tiene deuda técnica pendiente.
type ReplenishmentSuggestionDTO struct {
	MaterialID         string           `json:"material_id"`
	MaterialName       string           `json:"material_name"`
	Unit               string           `json:"unit"`
	RemainingQuantity  decimal.Decimal  `json:"remaining_quantity"`
	PendingDebt        decimal.Decimal  `json:"pending_debt"`
	DailyConsumption   decimal.Decimal  `json:"daily_consumption"`    // promedio de los últimos 30 días
	DaysUntilBreak     *decimal.Decimal `json:"days_until_break"`     // nil si no hay consumo
	IdealStock         decimal.Decimal  `json:"ideal_stock"`          // DailyConsumption * días de cobertura
	SuggestedOrderQty  decimal.Decimal  `json:"suggested_order_qty"`  // IdealStock - (Remaining - PendingDebt)
	UnitCost           decimal.Decimal  `json:"unit_cost"`            // costo del último lote
	EstimatedOrderCost decimal.Decimal  `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int              `json:"priority"`             // 1 = más urgente
}
