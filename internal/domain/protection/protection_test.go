package protection_test

import (
	"testing"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/decision"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/protection"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}

func sig(id string, typ risk.Type, sev risk.Severity, impact, prob string, tti int) risk.RiskSignal {
	return risk.RiskSignal{
		ID: id, Type: typ, Severity: sev, EntityID: id, EntityName: id,
		EstimatedImpact: d(impact), Probability: d(prob), TimeToImpactDays: tti,
		Data: map[string]any{},
	}
}

func TestUrgencyFactor(t *testing.T) {
	cases := map[int]string{-3: "1", 0: "1", 1: "0.9", 2: "0.9", 3: "0.7", 4: "0.7", 5: "0.5", 7: "0.5", 8: "0.2", 30: "0.2"}
	for days, want := range cases {
		decEq(t, want, protection.UrgencyFactor(days))
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, protection.StatusProtected, protection.StatusFor(85))
	assert.Equal(t, protection.StatusProtected, protection.StatusFor(80))
	assert.Equal(t, protection.StatusAtRisk, protection.StatusFor(65))
	assert.Equal(t, protection.StatusAtRisk, protection.StatusFor(50))
	assert.Equal(t, protection.StatusCritical, protection.StatusFor(30))
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 100, protection.HealthScore(nil))

	// Penaliza por tipo presente, no por cantidad.
	twoDead := []risk.RiskSignal{
		sig("a", risk.TypeDeadStock, risk.SeverityLow, "10", "0.6", 30),
		sig("b", risk.TypeDeadStock, risk.SeverityLow, "10", "0.6", 30),
	}
	assert.Equal(t, 95, protection.HealthScore(twoDead))

	medium := []risk.RiskSignal{
		sig("m", risk.TypeMarginDrift, risk.SeverityMedium, "10", "0.7", 7),
		sig("s", risk.TypeStockBreak, risk.SeverityMedium, "10", "0.2", 5),
	}
	assert.Equal(t, 82, protection.HealthScore(medium)) // 100 - 8 - 10

	severe := []risk.RiskSignal{
		sig("m1", risk.TypeMarginDrift, risk.SeverityMedium, "10", "0.7", 7),
		sig("m2", risk.TypeMarginDrift, risk.SeverityHigh, "10", "0.9", 7),
		sig("s1", risk.TypeStockBreak, risk.SeverityMedium, "10", "0.2", 5),
		sig("s2", risk.TypeStockBreak, risk.SeverityHigh, "10", "0.6", 3),
	}
	assert.Equal(t, 65, protection.HealthScore(severe)) // 100 - 15 - 20

	all := append(severe,
		sig("d", risk.TypeDebt, risk.SeverityCritical, "10", "1", 0),
		sig("p", risk.TypePriceBelowCost, risk.SeverityCritical, "10", "1", 0),
		sig("x", risk.TypeDeadStock, risk.SeverityLow, "10", "0.6", 30),
	)
	assert.Equal(t, 5, protection.HealthScore(all))
	assert.Equal(t, protection.StatusCritical, protection.StatusFor(protection.HealthScore(all)))
}

func TestAggregate_PrioridadYTop(t *testing.T) {
	// Prioridades: 1000*.6*.2=120, 100, 200*.5*.9=90, 100*.7*.5=35, 50*.4*.7=14, 10.
	signals := []risk.RiskSignal{
		sig("lejano", risk.TypeDeadStock, risk.SeverityLow, "1000", "0.6", 30),
		sig("ya", risk.TypePriceBelowCost, risk.SeverityCritical, "100", "1", 0),
		sig("pronto", risk.TypeStockBreak, risk.SeverityHigh, "200", "0.5", 2),
		sig("semana", risk.TypeMarginDrift, risk.SeverityMedium, "100", "0.7", 7),
		sig("medio", risk.TypeStockBreak, risk.SeverityMedium, "50", "0.4", 4),
		sig("chico", risk.TypePriceBelowCost, risk.SeverityCritical, "10", "1", 0),
	}
	health := risk.HealthReport{Signals: signals}

	rep := protection.Aggregate(health, decision.BuildDecisionReport(health))

	require.Len(t, rep.Actions, 6)
	require.Len(t, rep.TopActions, protection.TopActions)
	var ids []string
	for _, a := range rep.Actions {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"lejano", "ya", "pronto", "semana", "medio", "chico"}, ids)
	decEq(t, "120", rep.Actions[0].PriorityScore)
	decEq(t, "0.2", rep.Actions[0].UrgencyFactor)

	// Σ max(0, netBenefit): 300 + 100 + 100 + 70 + 20 + 10
	decEq(t, "600", rep.TotalProtectedValue)
}

func TestRunProtectionEngine_Integrado(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := entity.Snapshot{
		Now: now,
		Materials: []entity.RawMaterial{
			{ID: "M", Name: "Cuero", Unit: entity.UnitPiece, Status: entity.MaterialStatusActive},
		},
		Lots: []entity.MaterialLot{{
			ID: "L1", MaterialID: "M", Date: now.AddDate(0, 0, -5),
			InitialQuantity: d("10"), RemainingQuantity: d("10"), UnitCost: d("2.00"),
		}},
		Products: []entity.Product{{
			ID: "P", Name: "Billetera", Price: d("6"), TargetMargin: d("0.10"),
			Composition: []entity.CompositionLine{entity.LinearLine{MaterialID: "M", Quantity: d("4"), Unit: entity.UnitPiece}},
		}},
	}

	rep := protection.RunProtectionEngine(s)

	// price_below_cost (25) + margin_drift alto (15)
	assert.Equal(t, 60, rep.HealthScore)
	assert.Equal(t, protection.StatusAtRisk, rep.Status)
	require.Len(t, rep.Actions, 2)
	assert.Equal(t, risk.TypePriceBelowCost, rep.Actions[0].Signal.Type)
	decEq(t, "20", rep.Actions[0].Signal.EstimatedImpact)
	assert.Equal(t, now, rep.GeneratedAt)
}

func TestRunProtectionEngine_SinRiesgos(t *testing.T) {
	rep := protection.RunProtectionEngine(entity.Snapshot{Now: time.Now()})
	assert.Equal(t, 100, rep.HealthScore)
	assert.Equal(t, protection.StatusProtected, rep.Status)
	assert.Empty(t, rep.TopActions)
	decEq(t, "0", rep.TotalProtectedValue)
}
