package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo eventos de producción sobre PostgreSQL (usable con pool o tx).
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

// Create registra un evento de producción.
func (r *ProductionRepo) Create(ctx context.Context, mv *entity.ProductionMovement) error {
	query := `
		INSERT INTO production_movements (id, tenant_id, product_id, quantity, unit_cost, total_cost, has_missing_materials, reference, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		mv.ID, mv.TenantID, mv.ProductID, mv.Quantity, mv.UnitCost, mv.TotalCost,
		mv.HasMissingMaterials, mv.Reference, mv.Date, mv.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert production_movement: %w", err)
	}
	return nil
}

// ListByTenant lista los eventos con fecha >= since, del más antiguo al más reciente.
func (r *ProductionRepo) ListByTenant(ctx context.Context, tenantID string, since time.Time) ([]entity.ProductionMovement, error) {
	query := `
		SELECT id, tenant_id, product_id, quantity, unit_cost, total_cost, has_missing_materials, reference, date, created_by
		FROM production_movements
		WHERE tenant_id = $1 AND date >= $2
		ORDER BY date, id`
	rows, err := r.q.Query(ctx, query, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("list production_movements: %w", err)
	}
	defer rows.Close()

	var list []entity.ProductionMovement
	for rows.Next() {
		var mv entity.ProductionMovement
		if err := rows.Scan(
			&mv.ID, &mv.TenantID, &mv.ProductID, &mv.Quantity, &mv.UnitCost, &mv.TotalCost,
			&mv.HasMissingMaterials, &mv.Reference, &mv.Date, &mv.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan production_movement: %w", err)
		}
		list = append(list, mv)
	}
	return list, rows.Err()
}
