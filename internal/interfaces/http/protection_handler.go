package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Costeo-api/internal/application/analytics"
)

// ProtectionHandler maneja los reportes de salud, decisiones y protección financiera.
type ProtectionHandler struct {
	uc *appanalytics.ProtectionUseCase
}

// NewProtectionHandler construye el handler.
func NewProtectionHandler(uc *appanalytics.ProtectionUseCase) *ProtectionHandler {
	return &ProtectionHandler{uc: uc}
}

// GetReport devuelve el reporte de protección del taller.
// GET /api/protection/report
//
// Respuesta: ProtectionReportResponse (health_score, status, top_actions[5], actions,
// total_protected_value, health). Se sirve desde cache hasta la próxima escritura.
func (h *ProtectionHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.uc.GetProtectionReport(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetHealth GET /api/protection/health
func (h *ProtectionHandler) GetHealth(c *fiber.Ctx) error {
	report, err := h.uc.GetHealthReport(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetDecisions GET /api/protection/decisions
func (h *ProtectionHandler) GetDecisions(c *fiber.Ctx) error {
	report, err := h.uc.GetDecisionReport(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetReportPDF descarga el reporte de protección en PDF.
// GET /api/protection/report.pdf
func (h *ProtectionHandler) GetReportPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.ExportProtectionPDF(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-proteccion.pdf"`)
	return c.Send(pdf)
}
