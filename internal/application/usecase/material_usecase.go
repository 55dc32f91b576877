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
)

var validUnits = map[entity.Unit]bool{
	entity.UnitMeter:      true,
	entity.UnitCentimeter: true,
	entity.UnitKilogram:   true,
	entity.UnitGram:       true,
	entity.UnitPiece:      true,
	entity.UnitSquareM:    true,
	entity.UnitLiter:      true,
}

// MaterialUseCase casos de uso CRUD para materias primas y consulta de deuda técnica.
// Las materias primas nunca se borran físicamente. Los cambios de estado y los borrados
// invalidan el reporte cacheado: los detectores filtran por ciclo de vida.
type MaterialUseCase struct {
	repo        repository.MaterialRepository
	ledgerRepo  repository.LedgerRepository
	invalidator Invalidator
	log         *logger.Logger
}

// NewMaterialUseCase construye el caso de uso. invalidator y log pueden ser nil.
func NewMaterialUseCase(repo repository.MaterialRepository, ledgerRepo repository.LedgerRepository, invalidator Invalidator, log *logger.Logger) *MaterialUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MaterialUseCase{repo: repo, ledgerRepo: ledgerRepo, invalidator: invalidator, log: log}
}

// Create crea una materia prima activa.
func (uc *MaterialUseCase) Create(ctx context.Context, tenantID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.Name == "" || !validUnits[entity.Unit(in.Unit)] {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.RawMaterial{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		Name:            in.Name,
		Category:        in.Category,
		Unit:            entity.Unit(in.Unit),
		DefaultProvider: in.DefaultProvider,
		Status:          entity.MaterialStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// GetByID obtiene una materia prima. Devuelve nil, nil si no existe.
func (uc *MaterialUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return toMaterialResponse(m), nil
}

// Update actualiza nombre, categoría, proveedor o estado.
func (uc *MaterialUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		m.Name = *in.Name
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.DefaultProvider != nil {
		m.DefaultProvider = *in.DefaultProvider
	}
	if in.Status != nil {
		if *in.Status != entity.MaterialStatusActive && *in.Status != entity.MaterialStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		m.Status = *in.Status
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.invalidator, uc.log, tenantID)
	return toMaterialResponse(m), nil
}

// List lista las materias primas vivas del tenant.
func (uc *MaterialUseCase) List(ctx context.Context, tenantID string) (*dto.MaterialListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for i := range list {
		items = append(items, *toMaterialResponse(&list[i]))
	}
	return &dto.MaterialListResponse{Items: items}, nil
}

// Delete borra lógicamente la materia prima. Se rechaza con ErrMaterialHasDebt
// mientras tenga deuda técnica pendiente.
func (uc *MaterialUseCase) Delete(ctx context.Context, tenantID, id string) error {
	m, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	ledger, err := uc.ledgerRepo.ListByMaterial(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inventory.MaterialDebt(id, ledger).PendingQty.IsPositive() {
		return domain.ErrMaterialHasDebt
	}
	if err := uc.repo.SoftDelete(ctx, tenantID, id, time.Now()); err != nil {
		return err
	}
	invalidate(ctx, uc.invalidator, uc.log, tenantID)
	return nil
}

// Debt deuda técnica de una materia prima.
func (uc *MaterialUseCase) Debt(ctx context.Context, tenantID, id string) (*dto.DebtResponse, error) {
	m, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	ledger, err := uc.ledgerRepo.ListByMaterial(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	d := inventory.MaterialDebt(id, ledger)
	return &dto.DebtResponse{
		MaterialID:      id,
		MaterialName:    m.Name,
		PendingQty:      d.PendingQty,
		FinancialDebt:   d.FinancialDebt,
		AverageUnitCost: d.AverageUnitCost,
	}, nil
}

// DebtSummary deuda de todas las materias primas con saldo pendiente.
func (uc *MaterialUseCase) DebtSummary(ctx context.Context, tenantID string) (*dto.DebtSummaryResponse, error) {
	ledger, err := uc.ledgerRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	materials, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(materials))
	for _, m := range materials {
		names[m.ID] = m.Name
	}

	debts := inventory.MaterialDebts(ledger)
	out := &dto.DebtSummaryResponse{
		TotalFinancialDebt: inventory.TotalFinancialDebt(ledger),
		Items:              make([]dto.DebtResponse, 0, len(debts)),
	}
	for _, d := range debts {
		out.Items = append(out.Items, dto.DebtResponse{
			MaterialID:      d.MaterialID,
			MaterialName:    names[d.MaterialID],
			PendingQty:      d.PendingQty,
			FinancialDebt:   d.FinancialDebt,
			AverageUnitCost: d.AverageUnitCost,
		})
	}
	return out, nil
}

func toMaterialResponse(m *entity.RawMaterial) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:              m.ID,
		Name:            m.Name,
		Category:        m.Category,
		Unit:            string(m.Unit),
		DefaultProvider: m.DefaultProvider,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
