package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// LedgerRepository define el puerto del libro de existencias. Solo agrega movimientos;
// la única reescritura permitida es la del ingreso de un lote editado.
type LedgerRepository interface {
	Append(ctx context.Context, entries ...entity.LedgerEntry) error
	ListByMaterial(ctx context.Context, tenantID, materialID string) ([]entity.LedgerEntry, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entity.LedgerEntry, error)
	// GetIngressByLot devuelve nil, nil si el lote no tiene ingreso registrado.
	GetIngressByLot(ctx context.Context, tenantID, lotID string) (*entity.LedgerEntry, error)
	RewriteIngress(ctx context.Context, entry entity.LedgerEntry) error
}
