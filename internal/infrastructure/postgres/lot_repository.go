package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, tenant_id, material_id, date, initial_quantity, remaining_quantity, unit_cost, width, length, area, entry_mode, provider, created_at`

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// El orden de inserción (columna seq) es el orden FIFO.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, lot *entity.MaterialLot) error {
	query := `
		INSERT INTO material_lots (id, tenant_id, material_id, date, initial_quantity, remaining_quantity, unit_cost, width, length, area, entry_mode, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.TenantID, lot.MaterialID, lot.Date, lot.InitialQuantity, lot.RemainingQuantity,
		lot.UnitCost, lot.Width, lot.Length, lot.Area, lot.EntryMode, lot.Provider, lot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material_lot: %w", err)
	}
	return nil
}

// Update reescribe los campos editables del lote.
func (r *LotRepo) Update(ctx context.Context, lot *entity.MaterialLot) error {
	query := `
		UPDATE material_lots SET date = $3, initial_quantity = $4, remaining_quantity = $5, unit_cost = $6,
			width = $7, length = $8, area = $9, provider = $10
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		lot.TenantID, lot.ID, lot.Date, lot.InitialQuantity, lot.RemainingQuantity, lot.UnitCost,
		lot.Width, lot.Length, lot.Area, lot.Provider,
	)
	if err != nil {
		return fmt.Errorf("update material_lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRemaining actualiza solo el remanente (usado por el consumo FIFO).
func (r *LotRepo) UpdateRemaining(ctx context.Context, tenantID, lotID string, remaining decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE material_lots SET remaining_quantity = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, lotID, remaining,
	)
	if err != nil {
		return fmt.Errorf("update lot remaining: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un lote del tenant.
func (r *LotRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.MaterialLot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM material_lots WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.MaterialLot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM material_lots WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

// ListByMaterialsForUpdate toma un advisory lock de transacción por materia prima y bloquea
// sus lotes. El advisory lock cubre también el caso sin lotes: dos consumos de una materia
// prima sin stock se serializan igual que los que sí tienen filas que bloquear.
func (r *LotRepo) ListByMaterialsForUpdate(ctx context.Context, tenantID string, materialIDs []string) ([]entity.MaterialLot, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}
	// Orden estable de los locks para evitar deadlocks entre producciones con recetas cruzadas.
	if _, err := r.q.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtext($1 || ':' || m))
		FROM (SELECT DISTINCT unnest($2::text[]) AS m ORDER BY 1) AS ids`,
		tenantID, materialIDs,
	); err != nil {
		return nil, fmt.Errorf("lock materials: %w", err)
	}
	query := `SELECT ` + lotColumns + ` FROM material_lots
		WHERE tenant_id = $1 AND material_id = ANY($2)
		ORDER BY seq
		FOR UPDATE`
	return r.list(ctx, query, tenantID, materialIDs)
}

// ListByMaterial lista los lotes de una materia prima en orden FIFO.
func (r *LotRepo) ListByMaterial(ctx context.Context, tenantID, materialID string) ([]entity.MaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM material_lots WHERE tenant_id = $1 AND material_id = $2 ORDER BY seq`
	return r.list(ctx, query, tenantID, materialID)
}

// ListByTenant lista todos los lotes del tenant en orden FIFO.
func (r *LotRepo) ListByTenant(ctx context.Context, tenantID string) ([]entity.MaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM material_lots WHERE tenant_id = $1 ORDER BY seq`
	return r.list(ctx, query, tenantID)
}

func (r *LotRepo) getOne(ctx context.Context, query string, args ...any) (*entity.MaterialLot, error) {
	lot, err := scanLot(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material_lot: %w", err)
	}
	return lot, nil
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]entity.MaterialLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list material_lots: %w", err)
	}
	defer rows.Close()

	var list []entity.MaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material_lot: %w", err)
		}
		list = append(list, *lot)
	}
	return list, rows.Err()
}

func scanLot(row pgxScanner) (*entity.MaterialLot, error) {
	var l entity.MaterialLot
	err := row.Scan(
		&l.ID, &l.TenantID, &l.MaterialID, &l.Date, &l.InitialQuantity, &l.RemainingQuantity,
		&l.UnitCost, &l.Width, &l.Length, &l.Area, &l.EntryMode, &l.Provider, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
