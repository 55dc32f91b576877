package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ProductionRepository define el puerto para los eventos de producción.
type ProductionRepository interface {
	Create(ctx context.Context, mv *entity.ProductionMovement) error
	// ListByTenant devuelve los eventos con fecha >= since (since cero = todos).
	ListByTenant(ctx context.Context, tenantID string, since time.Time) ([]entity.ProductionMovement, error)
}
