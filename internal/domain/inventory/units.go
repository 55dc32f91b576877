package inventory

import (
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type unitPair struct {
	from, to entity.Unit
}

// conversionTable pares definidos; cualquier otro par (incluida la misma unidad) vale 1.
var conversionTable = map[unitPair]decimal.Decimal{
	{entity.UnitMeter, entity.UnitCentimeter}: decimal.NewFromInt(100),
	{entity.UnitCentimeter, entity.UnitMeter}: decimal.RequireFromString("0.01"),
	{entity.UnitKilogram, entity.UnitGram}:    decimal.NewFromInt(1000),
	{entity.UnitGram, entity.UnitKilogram}:    decimal.RequireFromString("0.001"),
}

// ConversionFactor devuelve el factor para pasar una cantidad de from a to (qty_to = qty_from * factor).
// Los pares desconocidos devuelven 1 sin error.
func ConversionFactor(from, to entity.Unit) decimal.Decimal {
	if f, ok := conversionTable[unitPair{from, to}]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// Convert expresa qty (en from) en la unidad to.
func Convert(qty decimal.Decimal, from, to entity.Unit) decimal.Decimal {
	return qty.Mul(ConversionFactor(from, to))
}
