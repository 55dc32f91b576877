package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionMovement registro de un evento de producción (consumo de la receta de un producto).
type ProductionMovement struct {
	ID                  string
	TenantID            string
	ProductID           string
	Quantity            decimal.Decimal
	UnitCost            decimal.Decimal // costo FIFO por unidad producida
	TotalCost           decimal.Decimal
	HasMissingMaterials bool
	Reference           string
	Date                time.Time
	CreatedBy           string
}
