package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, tenant_id, material_id, COALESCE(lot_id, ''), COALESCE(product_id, ''), date, kind, quantity, unit_cost, reference, created_at`

// LedgerRepo libro de existencias sobre PostgreSQL (usable con pool o tx). Solo INSERT,
// salvo la reescritura del ingreso de un lote intacto.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta los movimientos en un solo batch, en el orden recibido.
func (r *LedgerRepo) Append(ctx context.Context, entries ...entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO ledger_entries (id, tenant_id, material_id, lot_id, product_id, date, kind, quantity, unit_cost, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, now()))`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.ID, e.TenantID, e.MaterialID, nullableString(e.LotID), nullableString(e.ProductID),
			e.Date, string(e.Kind), e.Quantity, e.UnitCost, e.Reference, nullableTime(e.CreatedAt),
		)
	}
	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert ledger_entry: %w", err)
		}
	}
	return nil
}

// ListByMaterial lista los movimientos de una materia prima en orden de registro.
func (r *LedgerRepo) ListByMaterial(ctx context.Context, tenantID, materialID string) ([]entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND material_id = $2 ORDER BY seq`
	return r.list(ctx, query, tenantID, materialID)
}

// ListByTenant lista todo el libro del tenant en orden de registro.
func (r *LedgerRepo) ListByTenant(ctx context.Context, tenantID string) ([]entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1 ORDER BY seq`
	return r.list(ctx, query, tenantID)
}

// GetIngressByLot obtiene el ingreso de un lote.
func (r *LedgerRepo) GetIngressByLot(ctx context.Context, tenantID, lotID string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND lot_id = $2 AND kind = 'ingress'`
	e, err := scanLedgerEntry(r.q.QueryRow(ctx, query, tenantID, lotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingress: %w", err)
	}
	return e, nil
}

// RewriteIngress reescribe fecha, cantidad y costo del ingreso (lote aún no consumido).
func (r *LedgerRepo) RewriteIngress(ctx context.Context, entry entity.LedgerEntry) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE ledger_entries SET date = $3, quantity = $4, unit_cost = $5
		 WHERE tenant_id = $1 AND id = $2 AND kind = 'ingress'`,
		entry.TenantID, entry.ID, entry.Date, entry.Quantity, entry.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("rewrite ingress: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger_entries: %w", err)
	}
	defer rows.Close()

	var list []entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger_entry: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgxScanner) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var kind string
	err := row.Scan(
		&e.ID, &e.TenantID, &e.MaterialID, &e.LotID, &e.ProductID, &e.Date,
		&kind, &e.Quantity, &e.UnitCost, &e.Reference, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Kind = entity.LedgerKind(kind)
	return &e, nil
}
