package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, sku, name, price, target_margin, composition, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// La receta se guarda como JSONB con la misma forma que expone la API.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su receta.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	composition, err := encodeComposition(product.Composition)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (id, tenant_id, sku, name, price, target_margin, composition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.TenantID, product.SKU, product.Name, product.Price,
		product.TargetMargin, composition, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetBySKU obtiene un producto por tenant y SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND sku = $2`, tenantID, sku)
}

// Update actualiza datos comerciales y receta.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	composition, err := encodeComposition(product.Composition)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET name = $3, price = $4, target_margin = $5, composition = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		product.TenantID, product.ID, product.Name, product.Price, product.TargetMargin, composition, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista los productos del tenant por SKU.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string) ([]entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 ORDER BY sku`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var raw []byte
	err := row.Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Price, &p.TargetMargin, &raw, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	var lines []dto.CompositionLineDTO
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &lines); err != nil {
			return nil, fmt.Errorf("decode composition %s: %w", p.ID, err)
		}
	}
	p.Composition, err = dto.ToCompositionLines(lines)
	if err != nil {
		return nil, fmt.Errorf("decode composition %s: %w", p.ID, err)
	}
	return &p, nil
}

func encodeComposition(lines []entity.CompositionLine) ([]byte, error) {
	raw, err := json.Marshal(dto.FromCompositionLines(lines))
	if err != nil {
		return nil, fmt.Errorf("encode composition: %w", err)
	}
	return raw, nil
}
