package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"golang.org/x/sync/errgroup"
)

// SnapshotLoader arma la foto de un tenant leyendo los repositorios en paralelo.
// Solo lectura: cada goroutine escribe un campo distinto de la foto.
type SnapshotLoader struct {
	materialRepo   repository.MaterialRepository
	lotRepo        repository.LotRepository
	ledgerRepo     repository.LedgerRepository
	productRepo    repository.ProductRepository
	productionRepo repository.ProductionRepository
	now            func() time.Time
}

// NewSnapshotLoader construye el cargador.
func NewSnapshotLoader(
	materialRepo repository.MaterialRepository,
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	productionRepo repository.ProductionRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		materialRepo:   materialRepo,
		lotRepo:        lotRepo,
		ledgerRepo:     ledgerRepo,
		productRepo:    productRepo,
		productionRepo: productionRepo,
		now:            time.Now,
	}
}

// WithClock fija el instante de referencia de las fotos (tests y reportes históricos).
func (l *SnapshotLoader) WithClock(now func() time.Time) *SnapshotLoader {
	l.now = now
	return l
}

// LoadSnapshot lee las cinco colecciones del tenant. Los eventos de producción se limitan
// a la ventana de consumo; el libro se carga completo porque la deuda depende de toda su historia.
func (l *SnapshotLoader) LoadSnapshot(ctx context.Context, tenantID string) (entity.Snapshot, error) {
	snap := entity.Snapshot{Now: l.now()}
	since := snap.Now.AddDate(0, 0, -risk.ConsumptionWindowDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Materials, err = l.materialRepo.ListByTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Lots, err = l.lotRepo.ListByTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Ledger, err = l.ledgerRepo.ListByTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Products, err = l.productRepo.ListByTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Movements, err = l.productionRepo.ListByTenant(gctx, tenantID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return entity.Snapshot{}, fmt.Errorf("cargar foto del tenant %s: %w", tenantID, err)
	}
	return snap, nil
}
