// Package decision traduce cada señal de riesgo en una acción recomendada con dos
// escenarios proyectados (no actuar / actuar) sobre un horizonte fijo.
package decision

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
)

// HorizonDays horizonte de proyección de los escenarios.
const HorizonDays = 7

// liquidationDiscount pérdida asumida al liquidar stock inmovilizado.
var liquidationDiscount = decimal.RequireFromString("0.3")

// Scenario proyección de valor a HorizonDays. ProjectedValue negativo = pérdida.
type Scenario struct {
	Label          string
	Narrative      string
	ProjectedValue decimal.Decimal
	HorizonDays    int
}

// RecommendedAction acción candidata derivada de una señal (relación 1:1).
type RecommendedAction struct {
	ID           string
	Signal       risk.RiskSignal
	Title        string
	Description  string
	CallToAction string
	Inaction     Scenario
	Action       Scenario
	NetBenefit   decimal.Decimal // Action - Inaction
}

// DecisionReport acciones ordenadas por beneficio neto descendente.
type DecisionReport struct {
	GeneratedAt     time.Time
	Actions         []RecommendedAction
	TotalNetBenefit decimal.Decimal
}

// BuildDecisionReport construye el reporte de decisiones a partir del chequeo de salud.
// Usa solo los datos de las señales; no vuelve a consultar la foto.
func BuildDecisionReport(h risk.HealthReport) DecisionReport {
	actions := BuildActions(h.Signals)
	total := decimal.Zero
	for _, a := range actions {
		total = total.Add(a.NetBenefit)
	}
	return DecisionReport{
		GeneratedAt:     h.GeneratedAt,
		Actions:         actions,
		TotalNetBenefit: total,
	}
}

// BuildActions una acción por señal, ordenadas por NetBenefit descendente (orden estable).
func BuildActions(signals []risk.RiskSignal) []RecommendedAction {
	actions := make([]RecommendedAction, 0, len(signals))
	for _, s := range signals {
		actions = append(actions, BuildAction(s))
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].NetBenefit.GreaterThan(actions[j].NetBenefit)
	})
	return actions
}

// BuildAction proyecta los dos escenarios de una señal.
func BuildAction(s risk.RiskSignal) RecommendedAction {
	expectedLoss := s.EstimatedImpact.Mul(s.Probability)
	a := RecommendedAction{
		ID:     s.ID,
		Signal: s,
		Inaction: Scenario{
			Label:          "Sin acción",
			ProjectedValue: expectedLoss.Neg(),
			HorizonDays:    HorizonDays,
		},
		Action: Scenario{
			Label:          "Actuando hoy",
			ProjectedValue: decimal.Zero,
			HorizonDays:    HorizonDays,
		},
	}

	switch s.Type {
	case risk.TypeDebt:
		a.Title = "Saldar la deuda técnica de inventario"
		a.Description = fmt.Sprintf("Hay %s en consumos sin stock pendientes de compensar en %d materias primas.",
			money(s.EstimatedImpact), s.Data["debtsCount"])
		a.CallToAction = "Registrar compras"
		a.Inaction.Narrative = fmt.Sprintf("La deuda de %s sigue abierta y el costo de lo producido queda subestimado.", money(s.EstimatedImpact))
		a.Action.Narrative = "Las compras compensan la deuda y el costo real queda registrado."
	case risk.TypePriceBelowCost:
		a.Title = fmt.Sprintf("Corregir el precio de %s", s.EntityName)
		a.Description = fmt.Sprintf("%s se vende a %s y cuesta %s.", s.EntityName, money(s.Decimal("price")), money(s.Decimal("cost")))
		a.CallToAction = "Actualizar precio"
		a.Inaction.Narrative = fmt.Sprintf("Cada venta pierde dinero: %s en %d días.", money(expectedLoss), HorizonDays)
		a.Action.Narrative = "El precio cubre el costo y las ventas dejan de generar pérdida."
	case risk.TypeMarginDrift:
		a.Title = fmt.Sprintf("Recuperar el margen de %s", s.EntityName)
		a.Description = fmt.Sprintf("El margen real es %s frente a un objetivo de %s.", percent(s.Decimal("actualMargin")), percent(s.Decimal("targetMargin")))
		a.CallToAction = fmt.Sprintf("Subir precio a %s", money(s.Decimal("targetPrice")))
		a.Inaction.Narrative = fmt.Sprintf("El margen sigue erosionándose: %s dejados de ganar.", money(expectedLoss))
		a.Action.Narrative = "El precio vuelve al margen objetivo."
	case risk.TypeStockBreak:
		a.Title = fmt.Sprintf("Reponer %s", s.EntityName)
		a.Description = fmt.Sprintf("Al ritmo actual el stock se agota en %s días.", s.Decimal("daysUntilBreak").StringFixed(1))
		a.CallToAction = "Registrar compra"
		a.Inaction.Narrative = fmt.Sprintf("La producción se detiene o genera deuda: %s en riesgo.", money(expectedLoss))
		a.Action.Narrative = "El stock repuesto cubre el consumo del horizonte."
	case risk.TypeDeadStock:
		a.Title = fmt.Sprintf("Liquidar el stock inmovilizado de %s", s.EntityName)
		a.Description = fmt.Sprintf("Hay %s congelados en lotes de más de 60 días.", money(s.EstimatedImpact))
		a.CallToAction = "Planificar liquidación"
		a.Inaction.Narrative = fmt.Sprintf("El capital sigue inmovilizado y expuesto a merma: %s.", money(expectedLoss))
		a.Action.ProjectedValue = s.EstimatedImpact.Mul(liquidationDiscount).Neg()
		a.Action.Narrative = "Se recupera el capital con un descuento de liquidación."
	default:
		a.Title = s.EntityName
		a.CallToAction = "Revisar"
	}

	a.NetBenefit = a.Action.ProjectedValue.Sub(a.Inaction.ProjectedValue)
	return a
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func percent(v decimal.Decimal) string {
	return v.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
