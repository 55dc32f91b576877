package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PieceDTO geometría de una pieza cortada.
type PieceDTO struct {
	Width  decimal.Decimal `json:"width"`
	Length decimal.Decimal `json:"length"`
	Count  int             `json:"count"`
}

// CompositionLineDTO forma serializada de una línea de receta (HTTP, JSONB y archivos de foto).
// Mode "linear" usa Quantity; mode "pieces" usa Pieces y nunca persiste una cantidad.
type CompositionLineDTO struct {
	MaterialID string           `json:"material_id" validate:"required"`
	Mode       string           `json:"mode" validate:"required,oneof=linear pieces"`
	Unit       string           `json:"unit" validate:"required"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Pieces     []PieceDTO       `json:"pieces,omitempty"`
}

// CreateProductRequest entrada para crear un producto con su receta.
type CreateProductRequest struct {
	SKU          string               `json:"sku" validate:"required,min=1,max=100"`
	Name         string               `json:"name" validate:"required,min=1,max=200"`
	Price        decimal.Decimal      `json:"price"`
	TargetMargin decimal.Decimal      `json:"target_margin"`
	Composition  []CompositionLineDTO `json:"composition"`
}

// UpdateProductRequest entrada para actualizar datos comerciales (sin receta).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price        *decimal.Decimal `json:"price"`
	TargetMargin *decimal.Decimal `json:"target_margin"`
}

// UpdateCompositionRequest reemplaza la receta completa.
type UpdateCompositionRequest struct {
	Composition []CompositionLineDTO `json:"composition" validate:"required"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string               `json:"id"`
	SKU          string               `json:"sku"`
	Name         string               `json:"name"`
	Price        decimal.Decimal      `json:"price"`
	TargetMargin decimal.Decimal      `json:"target_margin"`
	Composition  []CompositionLineDTO `json:"composition"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// ProductCostResponse costo FIFO vigente de un producto.
type ProductCostResponse struct {
	ProductID      string          `json:"product_id"`
	Cost           decimal.Decimal `json:"cost"`
	Price          decimal.Decimal `json:"price"`
	Margin         decimal.Decimal `json:"margin"`
	TargetMargin   decimal.Decimal `json:"target_margin"`
	TargetPrice    decimal.Decimal `json:"target_price"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	HasActiveDebt  bool            `json:"has_active_debt"`
}

// ToCompositionLines convierte la forma serializada en las variantes de dominio.
func ToCompositionLines(in []CompositionLineDTO) ([]entity.CompositionLine, error) {
	out := make([]entity.CompositionLine, 0, len(in))
	for i, l := range in {
		if l.MaterialID == "" {
			return nil, fmt.Errorf("línea %d: materia prima requerida: %w", i+1, domain.ErrInvalidInput)
		}
		switch l.Mode {
		case entity.LineModeLinear, "":
			if l.Quantity == nil || !l.Quantity.GreaterThan(decimal.Zero) {
				return nil, fmt.Errorf("línea %d: cantidad requerida: %w", i+1, domain.ErrInvalidInput)
			}
			out = append(out, entity.LinearLine{MaterialID: l.MaterialID, Quantity: *l.Quantity, Unit: entity.Unit(l.Unit)})
		case entity.LineModePieces:
			if len(l.Pieces) == 0 {
				return nil, fmt.Errorf("línea %d: piezas requeridas: %w", i+1, domain.ErrInvalidInput)
			}
			pieces := make([]entity.Piece, 0, len(l.Pieces))
			for _, p := range l.Pieces {
				if p.Count < 0 || p.Width.IsNegative() || p.Length.IsNegative() {
					return nil, fmt.Errorf("línea %d: pieza inválida: %w", i+1, domain.ErrInvalidInput)
				}
				pieces = append(pieces, entity.Piece{Width: p.Width, Length: p.Length, Count: p.Count})
			}
			out = append(out, entity.PieceLine{MaterialID: l.MaterialID, Unit: entity.Unit(l.Unit), Pieces: pieces})
		default:
			return nil, fmt.Errorf("línea %d: modo %q: %w", i+1, l.Mode, domain.ErrInvalidInput)
		}
	}
	return out, nil
}

// FromCompositionLines convierte las variantes de dominio a su forma serializada.
func FromCompositionLines(lines []entity.CompositionLine) []CompositionLineDTO {
	out := make([]CompositionLineDTO, 0, len(lines))
	for _, line := range lines {
		switch l := line.(type) {
		case entity.LinearLine:
			qty := l.Quantity
			out = append(out, CompositionLineDTO{MaterialID: l.MaterialID, Mode: entity.LineModeLinear, Unit: string(l.Unit), Quantity: &qty})
		case entity.PieceLine:
			pieces := make([]PieceDTO, 0, len(l.Pieces))
			for _, p := range l.Pieces {
				pieces = append(pieces, PieceDTO{Width: p.Width, Length: p.Length, Count: p.Count})
			}
			out = append(out, CompositionLineDTO{MaterialID: l.MaterialID, Mode: entity.LineModePieces, Unit: string(l.Unit), Pieces: pieces})
		}
	}
	return out
}
