// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests y en evaluaciones fuera de línea; no es seguro para producción.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ inventory.TxRunner              = (*TxRunner)(nil)
	_ repository.MaterialRepository   = (*MaterialRepo)(nil)
	_ repository.LotRepository        = (*LotRepo)(nil)
	_ repository.LedgerRepository     = (*LedgerRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.ProductionRepository = (*ProductionRepo)(nil)
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	materials []entity.RawMaterial
	lots      []entity.MaterialLot
	ledger    []entity.LedgerEntry
	products  []entity.Product
	movements []entity.ProductionMovement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{}
}

// Seed carga una foto completa (todas las entidades con el tenant indicado).
func (s *Store) Seed(tenantID string, snap entity.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range snap.Materials {
		m.TenantID = tenantID
		s.materials = append(s.materials, m)
	}
	for _, l := range snap.Lots {
		l.TenantID = tenantID
		s.lots = append(s.lots, l)
	}
	for _, e := range snap.Ledger {
		e.TenantID = tenantID
		s.ledger = append(s.ledger, e)
	}
	for _, p := range snap.Products {
		p.TenantID = tenantID
		s.products = append(s.products, p)
	}
	for _, mv := range snap.Movements {
		mv.TenantID = tenantID
		s.movements = append(s.movements, mv)
	}
}

// Ledger copia del libro completo (para aserciones).
func (s *Store) Ledger() []entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.LedgerEntry(nil), s.ledger...)
}

// Lots copia de todos los lotes.
func (s *Store) Lots() []entity.MaterialLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.MaterialLot(nil), s.lots...)
}

// Movements copia de los eventos de producción.
func (s *Store) Movements() []entity.ProductionMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ProductionMovement(nil), s.movements...)
}

type state struct {
	materials []entity.RawMaterial
	lots      []entity.MaterialLot
	ledger    []entity.LedgerEntry
	products  []entity.Product
	movements []entity.ProductionMovement
}

func (s *Store) save() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state{
		materials: append([]entity.RawMaterial(nil), s.materials...),
		lots:      append([]entity.MaterialLot(nil), s.lots...),
		ledger:    append([]entity.LedgerEntry(nil), s.ledger...),
		products:  append([]entity.Product(nil), s.products...),
		movements: append([]entity.ProductionMovement(nil), s.movements...),
	}
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials, s.lots, s.ledger, s.products, s.movements = st.materials, st.lots, st.ledger, st.products, st.movements
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner serializa las transacciones y restaura el estado si fn falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios del store; si fn devuelve error, revierte todo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	productionRepo repository.ProductionRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	before := r.store.save()
	if err := fn(&LotRepo{s: r.store}, &LedgerRepo{s: r.store}, &ProductionRepo{s: r.store}); err != nil {
		r.store.restore(before)
		return err
	}
	return nil
}

// ── materias primas ───────────────────────────────────────────────────────────

// MaterialRepo repositorio de materias primas en memoria.
type MaterialRepo struct{ s *Store }

// NewMaterialRepository construye el repositorio.
func NewMaterialRepository(s *Store) *MaterialRepo { return &MaterialRepo{s: s} }

func (r *MaterialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.materials {
		if x.ID == m.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.materials = append(r.s.materials, *m)
	return nil
}

func (r *MaterialRepo) GetByID(_ context.Context, tenantID, id string) (*entity.RawMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.materials {
		if m.ID == id && m.TenantID == tenantID && m.IsAlive() {
			out := m
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.RawMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, x := range r.s.materials {
		if x.ID == m.ID && x.TenantID == m.TenantID {
			r.s.materials[i] = *m
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MaterialRepo) ListByTenant(_ context.Context, tenantID string) ([]entity.RawMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RawMaterial
	for _, m := range r.s.materials {
		if m.TenantID == tenantID && m.IsAlive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MaterialRepo) SoftDelete(_ context.Context, tenantID, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.materials {
		if m.ID == id && m.TenantID == tenantID && m.IsAlive() {
			r.s.materials[i].DeletedAt = &at
			r.s.materials[i].Status = entity.MaterialStatusInactive
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── lotes ─────────────────────────────────────────────────────────────────────

// LotRepo repositorio de lotes en memoria.
type LotRepo struct{ s *Store }

// NewLotRepository construye el repositorio.
func NewLotRepository(s *Store) *LotRepo { return &LotRepo{s: s} }

func (r *LotRepo) Create(_ context.Context, lot *entity.MaterialLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lots = append(r.s.lots, *lot)
	return nil
}

func (r *LotRepo) Update(_ context.Context, lot *entity.MaterialLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.lots {
		if l.ID == lot.ID && l.TenantID == lot.TenantID {
			r.s.lots[i] = *lot
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *LotRepo) UpdateRemaining(_ context.Context, tenantID, lotID string, remaining decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.lots {
		if l.ID == lotID && l.TenantID == tenantID {
			r.s.lots[i].RemainingQuantity = remaining
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *LotRepo) GetByID(_ context.Context, tenantID, id string) (*entity.MaterialLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lots {
		if l.ID == id && l.TenantID == tenantID {
			out := l
			return &out, nil
		}
	}
	return nil, nil
}

func (r *LotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.MaterialLot, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *LotRepo) ListByMaterialsForUpdate(_ context.Context, tenantID string, materialIDs []string) ([]entity.MaterialLot, error) {
	want := make(map[string]bool, len(materialIDs))
	for _, id := range materialIDs {
		want[id] = true
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.MaterialLot
	for _, l := range r.s.lots {
		if l.TenantID == tenantID && want[l.MaterialID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LotRepo) ListByMaterial(ctx context.Context, tenantID, materialID string) ([]entity.MaterialLot, error) {
	return r.ListByMaterialsForUpdate(ctx, tenantID, []string{materialID})
}

func (r *LotRepo) ListByTenant(_ context.Context, tenantID string) ([]entity.MaterialLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.MaterialLot
	for _, l := range r.s.lots {
		if l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── libro ─────────────────────────────────────────────────────────────────────

// LedgerRepo libro de existencias en memoria.
type LedgerRepo struct{ s *Store }

// NewLedgerRepository construye el repositorio.
func NewLedgerRepository(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Append(_ context.Context, entries ...entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger = append(r.s.ledger, entries...)
	return nil
}

func (r *LedgerRepo) ListByMaterial(_ context.Context, tenantID, materialID string) ([]entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.TenantID == tenantID && e.MaterialID == materialID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *LedgerRepo) ListByTenant(_ context.Context, tenantID string) ([]entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *LedgerRepo) GetIngressByLot(_ context.Context, tenantID, lotID string) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.ledger {
		if e.LotID == lotID && e.TenantID == tenantID && e.Kind == entity.LedgerIngress {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) RewriteIngress(_ context.Context, entry entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.ledger {
		if e.ID == entry.ID && e.TenantID == entry.TenantID && e.Kind == entity.LedgerIngress {
			r.s.ledger[i] = entry
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── productos ─────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ s *Store }

// NewProductRepository construye el repositorio.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.products {
		if x.TenantID == p.TenantID && (x.ID == p.ID || x.SKU == p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.products = append(r.s.products, *p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id && p.TenantID == tenantID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku && p.TenantID == tenantID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, x := range r.s.products {
		if x.ID == p.ID && x.TenantID == p.TenantID {
			r.s.products[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *ProductRepo) ListByTenant(_ context.Context, tenantID string) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── producción ────────────────────────────────────────────────────────────────

// ProductionRepo eventos de producción en memoria.
type ProductionRepo struct{ s *Store }

// NewProductionRepository construye el repositorio.
func NewProductionRepository(s *Store) *ProductionRepo { return &ProductionRepo{s: s} }

func (r *ProductionRepo) Create(_ context.Context, mv *entity.ProductionMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *mv)
	return nil
}

func (r *ProductionRepo) ListByTenant(_ context.Context, tenantID string, since time.Time) ([]entity.ProductionMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ProductionMovement
	for _, mv := range r.s.movements {
		if mv.TenantID == tenantID && !mv.Date.Before(since) {
			out = append(out, mv)
		}
	}
	return out, nil
}
