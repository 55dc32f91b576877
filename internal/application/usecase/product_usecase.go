package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Invalidator descarta reportes cacheados tras cambiar precios o recetas.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// ProductUseCase casos de uso para productos y su receta. El costo no se persiste:
// se calcula por FIFO contra los lotes vigentes en cada consulta.
type ProductUseCase struct {
	repo         repository.ProductRepository
	materialRepo repository.MaterialRepository
	lotRepo      repository.LotRepository
	ledgerRepo   repository.LedgerRepository
	invalidator  Invalidator
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso. invalidator y log pueden ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	materialRepo repository.MaterialRepository,
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	invalidator Invalidator,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		repo:         repo,
		materialRepo: materialRepo,
		lotRepo:      lotRepo,
		ledgerRepo:   ledgerRepo,
		invalidator:  invalidator,
		log:          log,
	}
}

// Create crea un producto con su receta. Todas las materias primas deben existir.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Price.IsNegative() || !validMargin(in.TargetMargin) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(ctx, tenantID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	lines, err := uc.composition(ctx, tenantID, in.Composition)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		SKU:          in.SKU,
		Name:         in.Name,
		Price:        in.Price,
		TargetMargin: in.TargetMargin,
		Composition:  lines,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.invalidator, uc.log, tenantID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil, nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, precio o margen objetivo. La receta se cambia con UpdateComposition.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.TargetMargin != nil {
		if !validMargin(*in.TargetMargin) {
			return nil, domain.ErrInvalidInput
		}
		product.TargetMargin = *in.TargetMargin
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.invalidator, uc.log, tenantID)
	return toProductResponse(product), nil
}

// UpdateComposition reemplaza la receta. Se rechaza con ErrProductHasActiveDebt mientras
// alguna salida asumida del producto siga sin compensar.
func (uc *ProductUseCase) UpdateComposition(ctx context.Context, tenantID, id string, in dto.UpdateCompositionRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	ledger, err := uc.ledgerRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if inventory.ProductHasActiveDebt(product.ID, ledger) {
		return nil, domain.ErrProductHasActiveDebt
	}
	lines, err := uc.composition(ctx, tenantID, in.Composition)
	if err != nil {
		return nil, err
	}
	product.Composition = lines
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.invalidator, uc.log, tenantID)
	return toProductResponse(product), nil
}

// List lista los productos del tenant.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, *toProductResponse(&list[i]))
	}
	return &dto.ProductListResponse{Items: items}, nil
}

// Cost calcula el costo FIFO vigente, el margen y el precio sugerido con redondeo comercial.
func (uc *ProductUseCase) Cost(ctx context.Context, tenantID, id string) (*dto.ProductCostResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	materials, err := uc.materialRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	ledger, err := uc.ledgerRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cost, err := inventory.ProductCost(*product, lots, materials)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductCostResponse{
		ProductID:     product.ID,
		Cost:          cost,
		Price:         product.Price,
		Margin:        inventory.Margin(product.Price, cost),
		TargetMargin:  product.TargetMargin,
		HasActiveDebt: inventory.ProductHasActiveDebt(product.ID, ledger),
	}
	if target, err := inventory.TargetPrice(cost, product.TargetMargin); err == nil {
		out.TargetPrice = target
		out.SuggestedPrice = inventory.CommercialRounding(target)
	}
	return out, nil
}

// composition valida la receta: formato de líneas y existencia de cada materia prima.
func (uc *ProductUseCase) composition(ctx context.Context, tenantID string, in []dto.CompositionLineDTO) ([]entity.CompositionLine, error) {
	lines, err := dto.ToCompositionLines(in)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		m, err := uc.materialRepo.GetByID(ctx, tenantID, l.Material())
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.ErrNotFound
		}
	}
	return lines, nil
}

// invalidate descarta el reporte cacheado; un fallo del cache no revierte la escritura.
func invalidate(ctx context.Context, inv Invalidator, log *logger.Logger, tenantID string) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar el reporte cacheado")
	}
}

func validMargin(m decimal.Decimal) bool {
	return !m.IsNegative() && m.LessThan(decimal.NewFromInt(1))
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Price:        p.Price,
		TargetMargin: p.TargetMargin,
		Composition:  dto.FromCompositionLines(p.Composition),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
