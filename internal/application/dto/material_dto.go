package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear una materia prima.
type CreateMaterialRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Category        string `json:"category"`
	Unit            string `json:"unit" validate:"required"`
	DefaultProvider string `json:"default_provider"`
}

// UpdateMaterialRequest entrada para actualizar una materia prima. La unidad no se edita.
type UpdateMaterialRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category        *string `json:"category"`
	DefaultProvider *string `json:"default_provider"`
	Status          *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// MaterialResponse salida de una materia prima.
type MaterialResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Unit            string    `json:"unit"`
	DefaultProvider string    `json:"default_provider"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MaterialListResponse lista de materias primas.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
}

// DebtResponse deuda técnica de una materia prima.
type DebtResponse struct {
	MaterialID      string          `json:"material_id"`
	MaterialName    string          `json:"material_name,omitempty"`
	PendingQty      decimal.Decimal `json:"pending_qty"`
	FinancialDebt   decimal.Decimal `json:"financial_debt"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
}

// DebtSummaryResponse deuda de todas las materias primas con saldo pendiente.
type DebtSummaryResponse struct {
	TotalFinancialDebt decimal.Decimal `json:"total_financial_debt"`
	Items              []DebtResponse  `json:"items"`
}
