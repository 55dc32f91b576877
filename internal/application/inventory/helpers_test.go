package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ── helpers ───────────────────────────────────────────────────────────────────

const tenant = "tenant-1"

var day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decEq(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

// seededStore taller con una tela (10 m a $2 el metro) y un bolso que usa 2 m de tela.
func seededStore() *memory.Store {
	s := memory.NewStore()
	s.Seed(tenant, workshopSnapshot())
	return s
}

func workshopSnapshot() entity.Snapshot {
	return entity.Snapshot{
		Materials: []entity.RawMaterial{
			{ID: "tela", Name: "Tela lona", Unit: entity.UnitMeter, Status: entity.MaterialStatusActive},
		},
		Lots: []entity.MaterialLot{
			{
				ID:                "lote-1",
				MaterialID:        "tela",
				Date:              day0,
				InitialQuantity:   d("10"),
				RemainingQuantity: d("10"),
				UnitCost:          d("2"),
				EntryMode:         entity.EntryModeRoll,
			},
		},
		Ledger: []entity.LedgerEntry{
			{ID: "ing-1", MaterialID: "tela", LotID: "lote-1", Date: day0, Kind: entity.LedgerIngress, Quantity: d("10"), UnitCost: d("2")},
		},
		Products: []entity.Product{
			{
				ID:           "bolso",
				SKU:          "BOL-01",
				Name:         "Bolso",
				Price:        d("20"),
				TargetMargin: d("0.4"),
				Composition: []entity.CompositionLine{
					entity.LinearLine{MaterialID: "tela", Quantity: d("2"), Unit: entity.UnitMeter},
				},
			},
		},
	}
}

func kinds(entries []entity.LedgerEntry) []entity.LedgerKind {
	out := make([]entity.LedgerKind, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Kind)
	}
	return out
}

// countingInvalidator cuenta las invalidaciones de cache por tenant.
type countingInvalidator struct {
	calls map[string]int
}

func newCountingInvalidator() *countingInvalidator {
	return &countingInvalidator{calls: map[string]int{}}
}

func (c *countingInvalidator) Invalidate(_ context.Context, tenantID string) error {
	c.calls[tenantID]++
	return nil
}

var errProductionStore = errors.New("fallo al guardar la producción")

// failingTxRunner delega en el runner en memoria pero el repositorio de producción falla,
// para verificar que el resto de la transacción se revierte.
type failingTxRunner struct {
	inner *memory.TxRunner
}

func (r failingTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	productionRepo repository.ProductionRepository,
) error) error {
	return r.inner.Run(ctx, func(lotRepo repository.LotRepository, ledgerRepo repository.LedgerRepository, _ repository.ProductionRepository) error {
		return fn(lotRepo, ledgerRepo, failingProductionRepo{})
	})
}

type failingProductionRepo struct{}

func (failingProductionRepo) Create(context.Context, *entity.ProductionMovement) error {
	return errProductionStore
}

func (failingProductionRepo) ListByTenant(context.Context, string, time.Time) ([]entity.ProductionMovement, error) {
	return nil, nil
}
