package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para materias primas (DIP).
// Todas las consultas excluyen las materias primas borradas lógicamente.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.RawMaterial) error
	// GetByID devuelve nil, nil si no existe o pertenece a otro tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.RawMaterial, error)
	Update(ctx context.Context, m *entity.RawMaterial) error
	ListByTenant(ctx context.Context, tenantID string) ([]entity.RawMaterial, error)
	SoftDelete(ctx context.Context, tenantID, id string, at time.Time) error
}
