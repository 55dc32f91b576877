package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// La composición se persiste junto al producto.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe o pertenece a otro tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByTenant(ctx context.Context, tenantID string) ([]entity.Product, error)
}
