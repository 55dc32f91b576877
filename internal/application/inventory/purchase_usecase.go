package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// PurchaseUseCase registra y edita lotes de compra. Al crear un lote salda primero la deuda
// pendiente de su materia prima (compensación automática) dentro de la misma transacción.
type PurchaseUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	lotRepo      repository.LotRepository
	invalidator  ReportInvalidator
	log          *logger.Logger
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. invalidator y log pueden ser nil.
func NewPurchaseUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	lotRepo repository.LotRepository,
	invalidator ReportInvalidator,
	log *logger.Logger,
) *PurchaseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseUseCase{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		lotRepo:      lotRepo,
		invalidator:  invalidator,
		log:          log,
		now:          time.Now,
	}
}

// RegisterLot registra la compra de un lote.
//
// Dentro de la transacción:
//  1. Bloquea los lotes de la materia prima (serializa contra consumos concurrentes)
//  2. Lee el libro de la materia prima y calcula la compensación de deuda
//  3. Persiste el lote con su remanente ajustado, el ingreso y la compensación
func (uc *PurchaseUseCase) RegisterLot(ctx context.Context, tenantID string, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	material, err := uc.materialRepo.GetByID(ctx, tenantID, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil || !material.IsAlive() {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	lot, err := inventory.LotFromPurchase(inventory.PurchaseInput{
		TenantID:   tenantID,
		MaterialID: material.ID,
		Date:       date,
		EntryMode:  in.EntryMode,
		TotalPrice: in.TotalPrice,
		Quantity:   in.Quantity,
		Width:      in.Width,
		Length:     in.Length,
		Provider:   in.Provider,
	})
	if err != nil {
		return nil, err
	}
	lot.CreatedAt = now

	var created inventory.LotCreation
	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.ProductionRepository,
	) error {
		if _, err := lotRepo.ListByMaterialsForUpdate(ctx, tenantID, []string{material.ID}); err != nil {
			return err
		}
		ledger, err := ledgerRepo.ListByMaterial(ctx, tenantID, material.ID)
		if err != nil {
			return err
		}
		created, err = inventory.CreateLot(lot, ledger, now)
		if err != nil {
			return err
		}
		if err := lotRepo.Create(ctx, &created.Lot); err != nil {
			return err
		}
		return ledgerRepo.Append(ctx, created.Entries...)
	})
	if err != nil {
		return nil, fmt.Errorf("registrar lote: %w", err)
	}

	compensated := created.Lot.InitialQuantity.Sub(created.Lot.RemainingQuantity)
	if compensated.GreaterThan(decimal.Zero) {
		uc.log.Info().
			Str("tenant_id", tenantID).
			Str("material_id", material.ID).
			Str("lot_id", created.Lot.ID).
			Str("compensated", compensated.String()).
			Msg("deuda compensada con lote nuevo")
	}
	uc.invalidate(ctx, tenantID)

	resp := toLotResponse(created.Lot)
	resp.CompensatedQuantity = compensated
	return &resp, nil
}

// UpdateLot edita un lote. Los lotes ya consumidos solo admiten cambios de fecha y proveedor;
// cualquier otro cambio devuelve ErrLotTouched. El ingreso del libro se reescribe con los datos nuevos.
func (uc *PurchaseUseCase) UpdateLot(ctx context.Context, tenantID, lotID string, in dto.UpdateLotRequest) (*dto.LotResponse, error) {
	edit := inventory.LotEdit{
		Date:            in.Date,
		Provider:        in.Provider,
		InitialQuantity: in.InitialQuantity,
		UnitCost:        in.UnitCost,
		Width:           in.Width,
		Length:          in.Length,
	}
	if in.InitialQuantity != nil && !in.InitialQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var updated entity.MaterialLot
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.ProductionRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(ctx, tenantID, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if edit.TouchesFinancialFields(*lot) && !inventory.IsLotUntouched(*lot) {
			return domain.ErrLotTouched
		}
		updated = inventory.ApplyLotEdit(*lot, edit)
		if err := lotRepo.Update(ctx, &updated); err != nil {
			return err
		}
		ingress, err := ledgerRepo.GetIngressByLot(ctx, tenantID, lotID)
		if err != nil {
			return err
		}
		if ingress == nil {
			return nil
		}
		return ledgerRepo.RewriteIngress(ctx, inventory.RewriteIngress(*ingress, updated))
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID)

	resp := toLotResponse(updated)
	return &resp, nil
}

// ListByMaterial lista los lotes de una materia prima en orden de ingreso.
func (uc *PurchaseUseCase) ListByMaterial(ctx context.Context, tenantID, materialID string) (*dto.LotListResponse, error) {
	lots, err := uc.lotRepo.ListByMaterial(ctx, tenantID, materialID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, toLotResponse(l))
	}
	return &dto.LotListResponse{Items: items}, nil
}

func (uc *PurchaseUseCase) invalidate(ctx context.Context, tenantID string) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar el reporte cacheado")
	}
}

func toLotResponse(l entity.MaterialLot) dto.LotResponse {
	return dto.LotResponse{
		ID:                  l.ID,
		MaterialID:          l.MaterialID,
		Date:                l.Date,
		InitialQuantity:     l.InitialQuantity,
		RemainingQuantity:   l.RemainingQuantity,
		UnitCost:            l.UnitCost,
		Width:               l.Width,
		Length:              l.Length,
		Area:                l.Area,
		EntryMode:           l.EntryMode,
		Provider:            l.Provider,
		CompensatedQuantity: decimal.Zero,
	}
}
