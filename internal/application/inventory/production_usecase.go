package inventory

import (
	"context"
	"fmt"
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

// ProductionUseCase registra producciones: consume la receta del producto por FIFO.
// La falta de stock nunca bloquea la producción; se registra como deuda técnica.
type ProductionUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	invalidator  ReportInvalidator
	log          *logger.Logger
	now          func() time.Time
}

// NewProductionUseCase construye el caso de uso. invalidator y log pueden ser nil.
func NewProductionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	materialRepo repository.MaterialRepository,
	invalidator ReportInvalidator,
	log *logger.Logger,
) *ProductionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductionUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		invalidator:  invalidator,
		log:          log,
		now:          time.Now,
	}
}

// RegisterProduction bloquea los lotes de todas las materias primas de la receta
// (SELECT FOR UPDATE), calcula el consumo y persiste lotes, movimientos y el evento
// de producción en una sola transacción.
func (uc *ProductionUseCase) RegisterProduction(ctx context.Context, tenantID, userID string, in dto.RegisterProductionRequest) (*dto.ProductionResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, tenantID, in.ProductID)
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

	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	reference := in.Reference
	if reference == "" {
		reference = "PRODUCCION " + product.SKU
	}

	var (
		result   inventory.ConsumptionResult
		movement entity.ProductionMovement
	)
	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		productionRepo repository.ProductionRepository,
	) error {
		lots, err := lotRepo.ListByMaterialsForUpdate(ctx, tenantID, compositionMaterials(product))
		if err != nil {
			return err
		}
		result, err = inventory.Consume(inventory.ConsumptionInput{
			Product:   product,
			Quantity:  in.Quantity,
			Lots:      lots,
			Materials: materials,
			At:        date,
			Reference: reference,
		})
		if err != nil {
			return err
		}
		for _, l := range result.UpdatedLots {
			if err := lotRepo.UpdateRemaining(ctx, tenantID, l.ID, l.RemainingQuantity); err != nil {
				return err
			}
		}
		if err := ledgerRepo.Append(ctx, result.NewLedgerEntries...); err != nil {
			return err
		}
		movement = entity.ProductionMovement{
			ID:                  uuid.New().String(),
			TenantID:            tenantID,
			ProductID:           product.ID,
			Quantity:            in.Quantity,
			UnitCost:            result.PerUnitCost,
			TotalCost:           result.TotalCost,
			HasMissingMaterials: result.HasMissingMaterials,
			Reference:           reference,
			Date:                date,
			CreatedBy:           userID,
		}
		return productionRepo.Create(ctx, &movement)
	})
	if err != nil {
		return nil, fmt.Errorf("registrar producción: %w", err)
	}

	if result.HasMissingMaterials {
		for _, line := range result.Lines {
			if !line.Breakdown.HasMissing() {
				continue
			}
			uc.log.Warn().
				Str("tenant_id", tenantID).
				Str("product_id", product.ID).
				Str("material_id", line.MaterialID).
				Str("missing", line.Breakdown.MissingQuantity.String()).
				Msg("producción sin stock suficiente: deuda técnica registrada")
		}
	}
	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx, tenantID); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar el reporte cacheado")
		}
	}
	return toProductionResponse(movement, result), nil
}

// compositionMaterials IDs de materias primas de la receta, sin repetir.
func compositionMaterials(p *entity.Product) []string {
	seen := make(map[string]bool, len(p.Composition))
	ids := make([]string, 0, len(p.Composition))
	for _, line := range p.Composition {
		id := line.Material()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func toProductionResponse(mv entity.ProductionMovement, res inventory.ConsumptionResult) *dto.ProductionResponse {
	out := &dto.ProductionResponse{
		ID:                  mv.ID,
		ProductID:           mv.ProductID,
		Quantity:            mv.Quantity,
		UnitCost:            mv.UnitCost,
		TotalCost:           mv.TotalCost,
		HasMissingMaterials: mv.HasMissingMaterials,
		Reference:           mv.Reference,
		Date:                mv.Date,
		Lines:               make([]dto.LineConsumptionDTO, 0, len(res.Lines)),
	}
	for _, line := range res.Lines {
		item := dto.LineConsumptionDTO{
			MaterialID:  line.MaterialID,
			Total:       line.Breakdown.Total,
			Missing:     line.Breakdown.MissingQuantity,
			Allocations: make([]dto.AllocationDTO, 0, len(line.Breakdown.Allocations)),
		}
		for _, a := range line.Breakdown.Allocations {
			item.Allocations = append(item.Allocations, dto.AllocationDTO{
				LotID:          a.LotID,
				QuantityNative: a.QuantityNative,
				QuantityTarget: a.QuantityTarget,
				UnitCost:       a.UnitCost,
				Subtotal:       a.Subtotal,
				IsMissing:      a.IsMissing,
			})
		}
		out.Lines = append(out.Lines, item)
	}
	return out
}
