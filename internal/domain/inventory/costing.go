package inventory

import (
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	fifty      = decimal.RequireFromString("0.50")
	ninety     = decimal.RequireFromString("0.90")
	ninetyNine = decimal.RequireFromString("0.99")
)

// FIFOCost costo FIFO de consumir qty (en unit) de la materia prima: suma de subtotales del desglose.
func FIFOCost(material entity.RawMaterial, qty decimal.Decimal, unit entity.Unit, lots []entity.MaterialLot) decimal.Decimal {
	return Breakdown(material, qty, unit, lots).Total
}

// LineRequirement cantidad requerida por una unidad de producto para la línea, en la unidad de la línea.
// Las líneas por piezas se recalculan siempre con la geometría actual (nunca con un valor persistido).
func LineRequirement(line entity.CompositionLine, lots []entity.MaterialLot) (decimal.Decimal, entity.Unit) {
	switch l := line.(type) {
	case entity.LinearLine:
		return l.Quantity, l.Unit
	case entity.PieceLine:
		return EquivalentQuantity(l, lots), l.Unit
	}
	return decimal.Zero, ""
}

// EquivalentQuantity largo equivalente de un conjunto de piezas: área total / ancho del último lote.
// El ancho del lote está en la unidad de la línea. Sin ancho conocido se suma el largo de cada pieza.
func EquivalentQuantity(line entity.PieceLine, lots []entity.MaterialLot) decimal.Decimal {
	width := decimal.Zero
	if latest, ok := LatestLot(entity.LotsOf(line.MaterialID, lots)); ok {
		width = latest.Width
	}
	total := decimal.Zero
	for _, p := range line.Pieces {
		if p.Count <= 0 {
			continue
		}
		if width.GreaterThan(decimal.Zero) {
			total = total.Add(p.Area().Div(width))
			continue
		}
		total = total.Add(p.Length.Mul(decimal.NewFromInt(int64(p.Count))))
	}
	return total
}

// ProductCost costo de una unidad de producto: suma del costo FIFO de cada línea de la receta.
func ProductCost(product entity.Product, lots []entity.MaterialLot, materials []entity.RawMaterial) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range product.Composition {
		material, ok := findMaterial(line.Material(), materials)
		if !ok {
			return decimal.Zero, fmt.Errorf("costo de %s: materia prima %s: %w", product.Name, line.Material(), domain.ErrNotFound)
		}
		qty, unit := LineRequirement(line, lots)
		total = total.Add(FIFOCost(material, qty, unit, lots))
	}
	return total, nil
}

// Margin margen sobre precio: (price - cost) / price. Con precio cero devuelve cero.
func Margin(price, cost decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(price)
}

// TargetPrice precio que logra el margen objetivo: cost / (1 - targetMargin).
func TargetPrice(cost, targetMargin decimal.Decimal) (decimal.Decimal, error) {
	den := decimal.NewFromInt(1).Sub(targetMargin)
	if !den.GreaterThan(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("margen objetivo %s: %w", targetMargin, domain.ErrInvalidInput)
	}
	return cost.Div(den), nil
}

// SuggestedPrice precio objetivo con redondeo comercial.
func SuggestedPrice(cost, targetMargin decimal.Decimal) (decimal.Decimal, error) {
	p, err := TargetPrice(cost, targetMargin)
	if err != nil {
		return decimal.Zero, err
	}
	return CommercialRounding(p), nil
}

// CommercialRounding redondeo comercial hacia arriba:
// fracción < .50 → .50; < .90 → .99; resto → siguiente entero .00.
func CommercialRounding(price decimal.Decimal) decimal.Decimal {
	whole := price.Floor()
	frac := price.Sub(whole)
	switch {
	case frac.LessThan(fifty):
		return whole.Add(fifty)
	case frac.LessThan(ninety):
		return whole.Add(ninetyNine)
	default:
		return whole.Add(decimal.NewFromInt(1))
	}
}
