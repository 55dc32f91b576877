package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((CantActual * CostoActual) + (CantEntrada * CostoEntrada)) / (CantActual + CantEntrada)
func CostCalculator(cantActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := cantActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := cantActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedAverageCost acumula CostCalculator sobre pares (cantidad, costo unitario).
// Devuelve cero si la cantidad total es cero.
func WeightedAverageCost(quantities, unitCosts []decimal.Decimal) decimal.Decimal {
	qty := decimal.Zero
	cost := decimal.Zero
	for i := range quantities {
		if i >= len(unitCosts) {
			break
		}
		cost = CostCalculator(qty, cost, quantities[i], unitCosts[i])
		qty = qty.Add(quantities[i])
	}
	return cost
}
