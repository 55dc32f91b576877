package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto terminado con su receta (composición) de materias primas.
// Price es el precio de venta; TargetMargin es una fracción (0.40 = 40%).
type Product struct {
	ID           string
	TenantID     string
	SKU          string
	Name         string
	Price        decimal.Decimal
	TargetMargin decimal.Decimal
	Composition  []CompositionLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Modos de línea de composición (forma serializada).
const (
	LineModeLinear = "linear"
	LineModePieces = "pieces"
)

// CompositionLine línea de receta. Tiene dos variantes cerradas: LinearLine y PieceLine.
type CompositionLine interface {
	Material() string
	Mode() string
	isCompositionLine()
}

// LinearLine línea con cantidad fija expresada en Unit.
type LinearLine struct {
	MaterialID string
	Quantity   decimal.Decimal
	Unit       Unit
}

func (l LinearLine) Material() string { return l.MaterialID }
func (l LinearLine) Mode() string     { return LineModeLinear }
func (LinearLine) isCompositionLine() {}

// Piece geometría de una pieza cortada (ancho x largo, en Unit) y cuántas se cortan.
type Piece struct {
	Width  decimal.Decimal
	Length decimal.Decimal
	Count  int
}

// Area área total de las piezas (ancho * largo * cantidad).
func (p Piece) Area() decimal.Decimal {
	return p.Width.Mul(p.Length).Mul(decimal.NewFromInt(int64(p.Count)))
}

// PieceLine línea por piezas. Su cantidad equivalente nunca se persiste:
// se recalcula con la geometría actual y el ancho del último lote.
type PieceLine struct {
	MaterialID string
	Unit       Unit
	Pieces     []Piece
}

func (l PieceLine) Material() string { return l.MaterialID }
func (l PieceLine) Mode() string     { return LineModePieces }
func (PieceLine) isCompositionLine() {}
