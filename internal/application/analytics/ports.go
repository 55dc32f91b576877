package analytics

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
)

// ReportCache guarda el reporte de protección por tenant. Un miss devuelve (nil, false, nil).
type ReportCache interface {
	GetProtection(ctx context.Context, tenantID string) (*dto.ProtectionReportResponse, bool, error)
	SetProtection(ctx context.Context, tenantID string, report *dto.ProtectionReportResponse) error
	Invalidate(ctx context.Context, tenantID string) error
}

// PDFGenerator genera el PDF del reporte de protección.
type PDFGenerator interface {
	ProtectionReport(report *dto.ProtectionReportResponse) ([]byte, error)
}
