package dto

import (
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/decision"
	"github.com/jhoicas/Costeo-api/internal/domain/protection"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/shopspring/decimal"
)

// RiskSignalDTO señal de riesgo.
type RiskSignalDTO struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Severity         string          `json:"severity"`
	Probability      decimal.Decimal `json:"probability"`
	EstimatedImpact  decimal.Decimal `json:"estimated_impact"`
	TimeToImpactDays int             `json:"time_to_impact_days"`
	EntityID         string          `json:"entity_id,omitempty"`
	EntityName       string          `json:"entity_name"`
	Data             map[string]any  `json:"data,omitempty"`
}

// ProductCostDTO costo vigente de un producto dentro del chequeo de salud.
type ProductCostDTO struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	Margin         decimal.Decimal `json:"margin"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	Error          string          `json:"error,omitempty"`
}

// HealthReportResponse chequeo de salud.
type HealthReportResponse struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	Signals              []RiskSignalDTO  `json:"signals"`
	TotalFinancialDebt   decimal.Decimal  `json:"total_financial_debt"`
	InventoryValue       decimal.Decimal  `json:"inventory_value"`
	MaterialDebts        []DebtResponse   `json:"material_debts"`
	ProductCosts         []ProductCostDTO `json:"product_costs"`
	ProductionLast30Days decimal.Decimal  `json:"production_last_30_days"`
	ProductionCost30Days decimal.Decimal  `json:"production_cost_last_30_days"`
}

// ScenarioDTO proyección de un escenario.
type ScenarioDTO struct {
	Label          string          `json:"label"`
	Narrative      string          `json:"narrative"`
	ProjectedValue decimal.Decimal `json:"projected_value"`
	HorizonDays    int             `json:"horizon_days"`
}

// ActionDTO acción recomendada. PriorityScore y UrgencyFactor solo en el reporte de protección.
type ActionDTO struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Severity      string           `json:"severity"`
	EntityName    string           `json:"entity_name"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	CallToAction  string           `json:"call_to_action"`
	Inaction      ScenarioDTO      `json:"inaction"`
	Action        ScenarioDTO      `json:"action"`
	NetBenefit    decimal.Decimal  `json:"net_benefit"`
	UrgencyFactor *decimal.Decimal `json:"urgency_factor,omitempty"`
	PriorityScore *decimal.Decimal `json:"priority_score,omitempty"`
}

// DecisionReportResponse acciones por beneficio neto.
type DecisionReportResponse struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Actions         []ActionDTO     `json:"actions"`
	TotalNetBenefit decimal.Decimal `json:"total_net_benefit"`
}

// ProtectionReportResponse reporte de protección financiera.
type ProtectionReportResponse struct {
	GeneratedAt         time.Time            `json:"generated_at"`
	HealthScore         int                  `json:"health_score"`
	Status              string               `json:"status"`
	TopActions          []ActionDTO          `json:"top_actions"`
	Actions             []ActionDTO          `json:"actions"`
	TotalProtectedValue decimal.Decimal      `json:"total_protected_value"`
	Health              HealthReportResponse `json:"health"`
}

// ── conversiones ──────────────────────────────────────────────────────────────

// ToRiskSignalDTO convierte una señal.
func ToRiskSignalDTO(s risk.RiskSignal) RiskSignalDTO {
	return RiskSignalDTO{
		ID:               s.ID,
		Type:             string(s.Type),
		Severity:         string(s.Severity),
		Probability:      s.Probability,
		EstimatedImpact:  s.EstimatedImpact,
		TimeToImpactDays: s.TimeToImpactDays,
		EntityID:         s.EntityID,
		EntityName:       s.EntityName,
		Data:             s.Data,
	}
}

// ToHealthReportResponse convierte el chequeo de salud.
func ToHealthReportResponse(h risk.HealthReport) HealthReportResponse {
	out := HealthReportResponse{
		GeneratedAt:          h.GeneratedAt,
		Signals:              make([]RiskSignalDTO, 0, len(h.Signals)),
		TotalFinancialDebt:   h.TotalFinancialDebt,
		InventoryValue:       h.InventoryValue,
		MaterialDebts:        make([]DebtResponse, 0, len(h.MaterialDebts)),
		ProductCosts:         make([]ProductCostDTO, 0, len(h.ProductCosts)),
		ProductionLast30Days: h.ProductionLast30Days,
		ProductionCost30Days: h.ProductionCost30Days,
	}
	for _, s := range h.Signals {
		out.Signals = append(out.Signals, ToRiskSignalDTO(s))
	}
	for _, d := range h.MaterialDebts {
		out.MaterialDebts = append(out.MaterialDebts, DebtResponse{
			MaterialID:      d.MaterialID,
			PendingQty:      d.PendingQty,
			FinancialDebt:   d.FinancialDebt,
			AverageUnitCost: d.AverageUnitCost,
		})
	}
	for _, pc := range h.ProductCosts {
		out.ProductCosts = append(out.ProductCosts, ProductCostDTO{
			ProductID:      pc.ProductID,
			SKU:            pc.SKU,
			Name:           pc.Name,
			Price:          pc.Price,
			Cost:           pc.Cost,
			Margin:         pc.Margin,
			SuggestedPrice: pc.SuggestedPrice,
			Error:          pc.Err,
		})
	}
	return out
}

// ToActionDTO convierte una acción recomendada.
func ToActionDTO(a decision.RecommendedAction) ActionDTO {
	return ActionDTO{
		ID:           a.ID,
		Type:         string(a.Signal.Type),
		Severity:     string(a.Signal.Severity),
		EntityName:   a.Signal.EntityName,
		Title:        a.Title,
		Description:  a.Description,
		CallToAction: a.CallToAction,
		Inaction:     toScenarioDTO(a.Inaction),
		Action:       toScenarioDTO(a.Action),
		NetBenefit:   a.NetBenefit,
	}
}

// ToDecisionReportResponse convierte el reporte de decisiones.
func ToDecisionReportResponse(r decision.DecisionReport) DecisionReportResponse {
	out := DecisionReportResponse{
		GeneratedAt:     r.GeneratedAt,
		Actions:         make([]ActionDTO, 0, len(r.Actions)),
		TotalNetBenefit: r.TotalNetBenefit,
	}
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, ToActionDTO(a))
	}
	return out
}

// ToProtectionReportResponse convierte el reporte de protección.
func ToProtectionReportResponse(r protection.ProtectionReport) ProtectionReportResponse {
	return ProtectionReportResponse{
		GeneratedAt:         r.GeneratedAt,
		HealthScore:         r.HealthScore,
		Status:              string(r.Status),
		TopActions:          toProtectedActions(r.TopActions),
		Actions:             toProtectedActions(r.Actions),
		TotalProtectedValue: r.TotalProtectedValue,
		Health:              ToHealthReportResponse(r.Health),
	}
}

func toProtectedActions(in []protection.ProtectedAction) []ActionDTO {
	out := make([]ActionDTO, 0, len(in))
	for _, a := range in {
		item := ToActionDTO(a.RecommendedAction)
		urgency, score := a.UrgencyFactor, a.PriorityScore
		item.UrgencyFactor = &urgency
		item.PriorityScore = &score
		out = append(out, item)
	}
	return out
}

func toScenarioDTO(s decision.Scenario) ScenarioDTO {
	return ScenarioDTO{
		Label:          s.Label,
		Narrative:      s.Narrative,
		ProjectedValue: s.ProjectedValue,
		HorizonDays:    s.HorizonDays,
	}
}
