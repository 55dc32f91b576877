// Package analytics contiene los casos de uso de reportes: chequeo de salud,
// decisiones y reporte de protección financiera.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/decision"
	"github.com/jhoicas/Costeo-api/internal/domain/protection"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

var _ inventory.ReportInvalidator = (*ProtectionUseCase)(nil)

// ProtectionUseCase expone los reportes sobre la foto del tenant.
//
// Solo el reporte de protección se cachea: es el que consume el dashboard.
// Las escrituras (compras, producción, cambios de receta) lo invalidan.
type ProtectionUseCase struct {
	loader inventory.SnapshotLoader
	cache  ReportCache
	pdf    PDFGenerator
	log    *logger.Logger
}

// NewProtectionUseCase construye el caso de uso. cache, pdf y log pueden ser nil.
func NewProtectionUseCase(loader inventory.SnapshotLoader, cache ReportCache, pdf PDFGenerator, log *logger.Logger) *ProtectionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProtectionUseCase{loader: loader, cache: cache, pdf: pdf, log: log}
}

// GetProtectionReport devuelve el reporte de protección, desde cache si existe.
func (uc *ProtectionUseCase) GetProtectionReport(ctx context.Context, tenantID string) (*dto.ProtectionReportResponse, error) {
	log := uc.log.ForTenant(tenantID)
	if uc.cache != nil {
		cached, ok, err := uc.cache.GetProtection(ctx, tenantID)
		if err != nil {
			log.Warn().Err(err).Msg("cache de reportes no disponible")
		} else if ok {
			return cached, nil
		}
	}

	snap, err := uc.loader.LoadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	report := protection.RunProtectionEngine(snap)
	resp := dto.ToProtectionReportResponse(report)

	log.Info().
		Int("health_score", report.HealthScore).
		Str("status", string(report.Status)).
		Int("signals", len(report.Health.Signals)).
		Str("protected_value", report.TotalProtectedValue.String()).
		Msg("reporte de protección generado")

	if uc.cache != nil {
		if err := uc.cache.SetProtection(ctx, tenantID, &resp); err != nil {
			log.Warn().Err(err).Msg("no se pudo cachear el reporte")
		}
	}
	return &resp, nil
}

// GetHealthReport ejecuta el chequeo de salud sin cache.
func (uc *ProtectionUseCase) GetHealthReport(ctx context.Context, tenantID string) (*dto.HealthReportResponse, error) {
	snap, err := uc.loader.LoadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToHealthReportResponse(risk.RunHealthCheck(snap))
	return &resp, nil
}

// GetDecisionReport devuelve las acciones ordenadas por beneficio neto.
func (uc *ProtectionUseCase) GetDecisionReport(ctx context.Context, tenantID string) (*dto.DecisionReportResponse, error) {
	snap, err := uc.loader.LoadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDecisionReportResponse(decision.BuildDecisionReport(risk.RunHealthCheck(snap)))
	return &resp, nil
}

// ExportProtectionPDF genera el PDF del reporte de protección.
func (uc *ProtectionUseCase) ExportProtectionPDF(ctx context.Context, tenantID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportar PDF: generador no configurado")
	}
	report, err := uc.GetProtectionReport(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.ProtectionReport(report)
}

// Invalidate descarta el reporte cacheado del tenant.
func (uc *ProtectionUseCase) Invalidate(ctx context.Context, tenantID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx, tenantID)
}
