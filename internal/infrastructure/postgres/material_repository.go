package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, tenant_id, name, category, unit, default_provider, status, deleted_at, created_at, updated_at`

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de persistencia para materias primas. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste una nueva materia prima.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		INSERT INTO raw_materials (id, tenant_id, name, category, unit, default_provider, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.Name, m.Category, string(m.Unit), m.DefaultProvider, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert raw_material: %w", err)
	}
	return nil
}

// GetByID obtiene una materia prima viva del tenant.
func (r *MaterialRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.RawMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw_material: %w", err)
	}
	return m, nil
}

// Update actualiza nombre, categoría, proveedor y estado. La unidad no cambia.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		UPDATE raw_materials SET name = $3, category = $4, default_provider = $5, status = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		m.TenantID, m.ID, m.Name, m.Category, m.DefaultProvider, m.Status, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update raw_material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista las materias primas vivas por nombre.
func (r *MaterialRepo) ListByTenant(ctx context.Context, tenantID string) ([]entity.RawMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list raw_materials: %w", err)
	}
	defer rows.Close()

	var list []entity.RawMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan raw_material: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// SoftDelete marca deleted_at; la fila y su historia se conservan.
func (r *MaterialRepo) SoftDelete(ctx context.Context, tenantID, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE raw_materials SET deleted_at = $3, updated_at = $3 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete raw_material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMaterial(row pgxScanner) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	var unit string
	err := row.Scan(
		&m.ID, &m.TenantID, &m.Name, &m.Category, &unit, &m.DefaultProvider,
		&m.Status, &m.DeletedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Unit = entity.Unit(unit)
	return &m, nil
}
