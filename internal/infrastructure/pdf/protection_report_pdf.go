// Package pdf genera el reporte de protección financiera del taller en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + fecha      │  Puntaje de salud + estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Valor protegido / Deuda técnica / Inventario      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ACCIONES: Severidad | Acción | Material/Producto | Benef.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SEÑALES: Tipo | Severidad | Entidad | Impacto | Días       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTOS: SKU | Precio | Costo | Margen | Sugerido        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Costeo-api/internal/application/analytics"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/pkg/money"
)

var _ analytics.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 176, Green: 0, Blue: 32}
	colorWarning  = &props.Color{Red: 191, Green: 110, Blue: 0}
	colorOK       = &props.Color{Red: 0, Green: 122, Blue: 61}
)

var statusLabels = map[string]string{
	"protected": "PROTEGIDO",
	"at_risk":   "EN RIESGO",
	"critical":  "CRÍTICO",
}

var severityLabels = map[string]string{
	"critical": "Crítica",
	"high":     "Alta",
	"medium":   "Media",
	"low":      "Baja",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	workshop string
}

// NewMarotoPDFGenerator construye el generador. workshop es el nombre que va en el encabezado.
func NewMarotoPDFGenerator(workshop string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{workshop: workshop}
}

// ProtectionReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) ProtectionReport(report *dto.ProtectionReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de protección financiera", true).
		WithAuthor(g.workshop, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("ACCIONES PRIORITARIAS"))
	if len(report.TopActions) == 0 {
		m.AddRows(emptyRow("Sin acciones pendientes: el taller está protegido."))
	} else {
		m.AddRows(actionsHeaderRow())
		m.AddRows(actionRows(report.TopActions)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("SEÑALES DE RIESGO"))
	if len(report.Health.Signals) == 0 {
		m.AddRows(emptyRow("Sin señales de riesgo."))
	} else {
		m.AddRows(signalsHeaderRow())
		m.AddRows(signalRows(report.Health.Signals)...)
	}

	if len(report.Health.ProductCosts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("COSTO VIGENTE POR PRODUCTO"))
		m.AddRows(productsHeaderRow())
		m.AddRows(productRows(report.Health.ProductCosts)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: taller + fecha (izq) y puntaje + estado (der).
func (g *MarotoPDFGenerator) headerRow(report *dto.ProtectionReportResponse) core.Row {
	status := nonEmpty(statusLabels[report.Status], report.Status)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.workshop, "Taller"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PUNTAJE DE SALUD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d / 100", report.HealthScore), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 13, Color: statusColor(report.Status),
			}),
		),
	)
}

// summaryRow: tres indicadores en columnas iguales.
func summaryRow(report *dto.ProtectionReportResponse) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		kpi("Valor a proteger", money.Format(report.TotalProtectedValue)),
		kpi("Deuda técnica", money.Format(report.Health.TotalFinancialDebt)),
		kpi("Inventario valorizado", money.Format(report.Health.InventoryValue)),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func actionsHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Severidad", 2, align.Left),
		headerCell("Acción", 5, align.Left),
		headerCell("Material / Producto", 3, align.Left),
		headerCell("Beneficio", 2, align.Right),
	)
}

func actionRows(actions []dto.ActionDTO) []core.Row {
	rows := make([]core.Row, 0, len(actions)*2)
	for _, a := range actions {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(nonEmpty(severityLabels[a.Severity], a.Severity), props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1, Color: severityColor(a.Severity),
			})),
			cell(a.Title, 5, align.Left),
			cell(a.EntityName, 3, align.Left),
			cell(money.Format(a.NetBenefit), 2, align.Right),
		))
		if a.CallToAction != "" {
			rows = append(rows, row.New(5).Add(
				col.New(2),
				col.New(10).Add(text.New(a.CallToAction, props.Text{Size: 7, Color: colorGray, Left: 1})),
			))
		}
	}
	return rows
}

func signalsHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Tipo", 3, align.Left),
		headerCell("Severidad", 2, align.Left),
		headerCell("Entidad", 3, align.Left),
		headerCell("Impacto", 2, align.Right),
		headerCell("Días", 2, align.Right),
	)
}

func signalRows(signals []dto.RiskSignalDTO) []core.Row {
	rows := make([]core.Row, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, row.New(5).Add(
			cell(s.Type, 3, align.Left),
			cell(nonEmpty(severityLabels[s.Severity], s.Severity), 2, align.Left),
			cell(s.EntityName, 3, align.Left),
			cell(money.Format(s.EstimatedImpact), 2, align.Right),
			cell(fmt.Sprintf("%d", s.TimeToImpactDays), 2, align.Right),
		))
	}
	return rows
}

func productsHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("SKU", 2, align.Left),
		headerCell("Producto", 3, align.Left),
		headerCell("Precio", 2, align.Right),
		headerCell("Costo", 2, align.Right),
		headerCell("Margen", 1, align.Right),
		headerCell("Sugerido", 2, align.Right),
	)
}

func productRows(products []dto.ProductCostDTO) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		if p.Error != "" {
			rows = append(rows, row.New(5).Add(
				cell(p.SKU, 2, align.Left),
				cell(p.Name, 3, align.Left),
				cell("costo no disponible: "+p.Error, 7, align.Left),
			))
			continue
		}
		rows = append(rows, row.New(5).Add(
			cell(p.SKU, 2, align.Left),
			cell(p.Name, 3, align.Left),
			cell(money.Format(p.Price), 2, align.Right),
			cell(money.Format(p.Cost), 2, align.Right),
			cell(money.Percent(p.Margin), 1, align.Right),
			cell(money.Format(p.SuggestedPrice), 2, align.Right),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(status string) *props.Color {
	switch status {
	case "protected":
		return colorOK
	case "at_risk":
		return colorWarning
	default:
		return colorCritical
	}
}

func severityColor(severity string) *props.Color {
	switch severity {
	case "critical", "high":
		return colorCritical
	case "medium":
		return colorWarning
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
