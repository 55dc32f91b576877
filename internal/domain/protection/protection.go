// Package protection agrega señales y decisiones en el reporte de protección financiera:
// puntaje de salud, estado y acciones priorizadas por urgencia.
package protection

import (
	"sort"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/decision"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
)

// TopActions cantidad de acciones destacadas del reporte.
const TopActions = 5

// Status estado de protección derivado del puntaje de salud.
type Status string

const (
	StatusProtected Status = "protected"
	StatusAtRisk    Status = "at_risk"
	StatusCritical  Status = "critical"
)

// Penalizaciones por tipo de señal presente (no por cantidad).
const (
	penaltyDebt             = 30
	penaltyPriceBelowCost   = 25
	penaltyMarginDriftHigh  = 15
	penaltyMarginDriftOther = 8
	penaltyStockBreakNear   = 20
	penaltyStockBreakFar    = 10
	penaltyDeadStock        = 5
)

// ProtectedAction acción recomendada con su puntaje de prioridad.
type ProtectedAction struct {
	decision.RecommendedAction
	UrgencyFactor decimal.Decimal
	PriorityScore decimal.Decimal
}

// ProtectionReport reporte final de protección de un tenant.
type ProtectionReport struct {
	GeneratedAt         time.Time
	HealthScore         int
	Status              Status
	TopActions          []ProtectedAction
	Actions             []ProtectedAction // todas, por PriorityScore descendente
	TotalProtectedValue decimal.Decimal
	Health              risk.HealthReport
}

// RunProtectionEngine único punto de entrada para consumidores externos:
// chequeo de salud → decisiones → priorización.
func RunProtectionEngine(s entity.Snapshot) ProtectionReport {
	health := risk.RunHealthCheck(s)
	return Aggregate(health, decision.BuildDecisionReport(health))
}

// Aggregate prioriza las acciones del reporte de decisiones y calcula el estado.
func Aggregate(health risk.HealthReport, decisions decision.DecisionReport) ProtectionReport {
	actions := make([]ProtectedAction, 0, len(decisions.Actions))
	protected := decimal.Zero
	for _, a := range decisions.Actions {
		urgency := UrgencyFactor(a.Signal.TimeToImpactDays)
		actions = append(actions, ProtectedAction{
			RecommendedAction: a,
			UrgencyFactor:     urgency,
			PriorityScore:     PriorityScore(a.Signal, urgency),
		})
		protected = protected.Add(decimal.Max(decimal.Zero, a.NetBenefit))
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].PriorityScore.GreaterThan(actions[j].PriorityScore)
	})

	top := actions
	if len(top) > TopActions {
		top = top[:TopActions]
	}
	score := HealthScore(health.Signals)
	return ProtectionReport{
		GeneratedAt:         health.GeneratedAt,
		HealthScore:         score,
		Status:              StatusFor(score),
		TopActions:          top,
		Actions:             actions,
		TotalProtectedValue: protected,
		Health:              health,
	}
}

// UrgencyFactor escalones de urgencia por días hasta el impacto.
func UrgencyFactor(days int) decimal.Decimal {
	switch {
	case days <= 0:
		return decimal.NewFromInt(1)
	case days <= 2:
		return decimal.RequireFromString("0.9")
	case days <= 4:
		return decimal.RequireFromString("0.7")
	case days <= 7:
		return decimal.RequireFromString("0.5")
	default:
		return decimal.RequireFromString("0.2")
	}
}

// PriorityScore impacto * probabilidad * urgencia.
func PriorityScore(s risk.RiskSignal, urgency decimal.Decimal) decimal.Decimal {
	return s.EstimatedImpact.Mul(s.Probability).Mul(urgency)
}

// HealthScore 100 menos las penalizaciones de cada tipo de señal presente, acotado a [0, 100].
func HealthScore(signals []risk.RiskSignal) int {
	present := make(map[risk.Type]bool)
	driftHigh := false
	nearestBreak := -1
	for _, s := range signals {
		present[s.Type] = true
		switch s.Type {
		case risk.TypeMarginDrift:
			if s.Severity == risk.SeverityHigh || s.Severity == risk.SeverityCritical {
				driftHigh = true
			}
		case risk.TypeStockBreak:
			if nearestBreak < 0 || s.TimeToImpactDays < nearestBreak {
				nearestBreak = s.TimeToImpactDays
			}
		}
	}

	score := 100
	if present[risk.TypeDebt] {
		score -= penaltyDebt
	}
	if present[risk.TypePriceBelowCost] {
		score -= penaltyPriceBelowCost
	}
	if present[risk.TypeMarginDrift] {
		if driftHigh {
			score -= penaltyMarginDriftHigh
		} else {
			score -= penaltyMarginDriftOther
		}
	}
	if present[risk.TypeStockBreak] {
		if nearestBreak <= 3 {
			score -= penaltyStockBreakNear
		} else {
			score -= penaltyStockBreakFar
		}
	}
	if present[risk.TypeDeadStock] {
		score -= penaltyDeadStock
	}

	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

// StatusFor ≥80 protegido, ≥50 en riesgo, resto crítico.
func StatusFor(score int) Status {
	switch {
	case score >= 80:
		return StatusProtected
	case score >= 50:
		return StatusAtRisk
	default:
		return StatusCritical
	}
}
