package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SnapshotFile foto de un tenant en JSON, para evaluar reportes fuera de línea (CLI).
type SnapshotFile struct {
	Now       *time.Time         `json:"now"`
	Materials []SnapshotMaterial `json:"materials"`
	Lots      []SnapshotLot      `json:"lots"`
	Ledger    []SnapshotEntry    `json:"ledger"`
	Products  []SnapshotProduct  `json:"products"`
	Movements []SnapshotMovement `json:"movements"`
}

// SnapshotMaterial materia prima en la foto.
type SnapshotMaterial struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Unit      string     `json:"unit"`
	Status    string     `json:"status"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// SnapshotLot lote en la foto.
type SnapshotLot struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	Date              time.Time       `json:"date"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Width             decimal.Decimal `json:"width"`
	Length            decimal.Decimal `json:"length"`
	EntryMode         string          `json:"entry_mode"`
	Provider          string          `json:"provider"`
}

// SnapshotEntry movimiento del libro en la foto.
type SnapshotEntry struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	LotID      string          `json:"lot_id,omitempty"`
	ProductID  string          `json:"product_id,omitempty"`
	Date       time.Time       `json:"date"`
	Kind       string          `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference"`
}

// SnapshotProduct producto en la foto.
type SnapshotProduct struct {
	ID           string               `json:"id"`
	SKU          string               `json:"sku"`
	Name         string               `json:"name"`
	Price        decimal.Decimal      `json:"price"`
	TargetMargin decimal.Decimal      `json:"target_margin"`
	Composition  []CompositionLineDTO `json:"composition"`
}

// SnapshotMovement evento de producción en la foto.
type SnapshotMovement struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Date      time.Time       `json:"date"`
}

// ToSnapshot convierte el archivo en la foto de dominio. Sin "now" usa el instante dado.
func (f SnapshotFile) ToSnapshot(now time.Time) (entity.Snapshot, error) {
	s := entity.Snapshot{Now: now}
	if f.Now != nil {
		s.Now = *f.Now
	}
	for _, m := range f.Materials {
		status := m.Status
		if status == "" {
			status = entity.MaterialStatusActive
		}
		s.Materials = append(s.Materials, entity.RawMaterial{
			ID: m.ID, Name: m.Name, Category: m.Category, Unit: entity.Unit(m.Unit), Status: status, DeletedAt: m.DeletedAt,
		})
	}
	for _, l := range f.Lots {
		s.Lots = append(s.Lots, entity.MaterialLot{
			ID:                l.ID,
			MaterialID:        l.MaterialID,
			Date:              l.Date,
			InitialQuantity:   l.InitialQuantity,
			RemainingQuantity: l.RemainingQuantity,
			UnitCost:          l.UnitCost,
			Width:             l.Width,
			Length:            l.Length,
			Area:              l.Width.Mul(l.Length),
			EntryMode:         l.EntryMode,
			Provider:          l.Provider,
		})
	}
	for _, e := range f.Ledger {
		kind := entity.LedgerKind(e.Kind)
		switch kind {
		case entity.LedgerIngress, entity.LedgerEgress, entity.LedgerAssumedEgress, entity.LedgerCompensatingEgress:
		default:
			return entity.Snapshot{}, fmt.Errorf("movimiento %s: tipo %q desconocido", e.ID, e.Kind)
		}
		s.Ledger = append(s.Ledger, entity.LedgerEntry{
			ID: e.ID, MaterialID: e.MaterialID, LotID: e.LotID, ProductID: e.ProductID, Date: e.Date,
			Kind: kind, Quantity: e.Quantity, UnitCost: e.UnitCost, Reference: e.Reference,
		})
	}
	for _, p := range f.Products {
		lines, err := ToCompositionLines(p.Composition)
		if err != nil {
			return entity.Snapshot{}, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		s.Products = append(s.Products, entity.Product{
			ID: p.ID, SKU: p.SKU, Name: p.Name, Price: p.Price, TargetMargin: p.TargetMargin, Composition: lines,
		})
	}
	for _, mv := range f.Movements {
		s.Movements = append(s.Movements, entity.ProductionMovement{
			ID: mv.ID, ProductID: mv.ProductID, Quantity: mv.Quantity, TotalCost: mv.TotalCost, Date: mv.Date,
		})
	}
	return s, nil
}
