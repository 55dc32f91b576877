package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotRepository define el puerto de persistencia para lotes de materia prima.
// Usado dentro de transacciones para serializar consumos por materia prima.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.MaterialLot) error
	Update(ctx context.Context, lot *entity.MaterialLot) error
	UpdateRemaining(ctx context.Context, tenantID, lotID string, remaining decimal.Decimal) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.MaterialLot, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.MaterialLot, error)
	// ListByMaterialsForUpdate bloquea todos los lotes de las materias primas indicadas,
	// en orden de inserción.
	ListByMaterialsForUpdate(ctx context.Context, tenantID string, materialIDs []string) ([]entity.MaterialLot, error)
	ListByMaterial(ctx context.Context, tenantID, materialID string) ([]entity.MaterialLot, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entity.MaterialLot, error)
}
