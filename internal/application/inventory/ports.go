package inventory

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que todas las actualizaciones de lotes y los movimientos de un mismo evento
// (consumo o compra con compensación) se confirmen o se reviertan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		productionRepo repository.ProductionRepository,
	) error) error
}

// ReportInvalidator descarta los reportes cacheados de un tenant después de una escritura.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// SnapshotLoader carga la foto completa de un tenant.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, tenantID string) (entity.Snapshot, error)
}
