package entity

import "time"

// Unit unidad de medida de una materia prima o de una línea de composición.
type Unit string

const (
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitPiece      Unit = "unidad"
	UnitSquareM    Unit = "m2"
	UnitLiter      Unit = "l"
)

// Estados de ciclo de vida de una materia prima.
const (
	MaterialStatusActive   = "active"
	MaterialStatusInactive = "inactive"
)

// RawMaterial representa una materia prima del taller.
// Nunca se borra físicamente: DeletedAt marca el borrado lógico y todas las consultas lo filtran.
type RawMaterial struct {
	ID              string
	TenantID        string
	Name            string
	Category        string
	Unit            Unit
	DefaultProvider string
	Status          string // active, inactive
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAlive indica si la materia prima no fue borrada lógicamente.
func (m RawMaterial) IsAlive() bool {
	return m.DeletedAt == nil
}

// IsActive indica si la materia prima participa en las evaluaciones.
func (m RawMaterial) IsActive() bool {
	return m.IsAlive() && m.Status != MaterialStatusInactive
}
