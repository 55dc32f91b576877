package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterProductionRequest entrada para registrar una producción.
type RegisterProductionRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"`
	Date      *time.Time      `json:"date"`
}

// AllocationDTO asignación FIFO (o faltante) de una línea.
type AllocationDTO struct {
	LotID          string          `json:"lot_id,omitempty"`
	QuantityNative decimal.Decimal `json:"quantity_native"`
	QuantityTarget decimal.Decimal `json:"quantity_target"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	IsMissing      bool            `json:"is_missing"`
}

// LineConsumptionDTO desglose de una línea de receta.
type LineConsumptionDTO struct {
	MaterialID  string          `json:"material_id"`
	Total       decimal.Decimal `json:"total"`
	Missing     decimal.Decimal `json:"missing_quantity"`
	Allocations []AllocationDTO `json:"allocations"`
}

// ProductionResponse resultado de registrar una producción.
type ProductionResponse struct {
	ID                  string               `json:"id"`
	ProductID           string               `json:"product_id"`
	Quantity            decimal.Decimal      `json:"quantity"`
	UnitCost            decimal.Decimal      `json:"unit_cost"`
	TotalCost           decimal.Decimal      `json:"total_cost"`
	HasMissingMaterials bool                 `json:"has_missing_materials"`
	Reference           string               `json:"reference"`
	Date                time.Time            `json:"date"`
	Lines               []LineConsumptionDTO `json:"lines"`
}
