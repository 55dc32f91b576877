package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest entrada para registrar la compra de un lote.
// En modo "roll" la cantidad es Length; en modo "piece" es Quantity.
type CreateLotRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	Date       *time.Time      `json:"date"`
	EntryMode  string          `json:"entry_mode" validate:"omitempty,oneof=roll piece"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Width      decimal.Decimal `json:"width"`
	Length     decimal.Decimal `json:"length"`
	Provider   string          `json:"provider"`
}

// UpdateLotRequest edición de un lote. Cantidad, costo y geometría solo si el lote está intacto.
type UpdateLotRequest struct {
	Date            *time.Time       `json:"date"`
	Provider        *string          `json:"provider"`
	InitialQuantity *decimal.Decimal `json:"initial_quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Width           *decimal.Decimal `json:"width"`
	Length          *decimal.Decimal `json:"length"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID                  string          `json:"id"`
	MaterialID          string          `json:"material_id"`
	Date                time.Time       `json:"date"`
	InitialQuantity     decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity   decimal.Decimal `json:"remaining_quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	Width               decimal.Decimal `json:"width"`
	Length              decimal.Decimal `json:"length"`
	Area                decimal.Decimal `json:"area"`
	EntryMode           string          `json:"entry_mode"`
	Provider            string          `json:"provider"`
	CompensatedQuantity decimal.Decimal `json:"compensated_quantity"`
}

// LotListResponse lotes de una materia prima.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
}
